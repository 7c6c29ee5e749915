package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finman/internal/auth"
	"finman/internal/backend"
	"finman/internal/budget"
	"finman/internal/cli"
	"finman/internal/log"
	"finman/internal/menu"
	"finman/internal/user"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Cancel the session on Ctrl+C so cleanup still runs
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := backend.Create(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", log.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	// The budget template must exist before any user session starts
	if err := budget.EnsureBasicTemplate(ctx, result.Store); err != nil {
		logger.Error("Failed to seed the basic budget template", log.FieldError, err)
		os.Exit(1)
	}

	provider := auth.NewLocalProvider(result.Store, logger)
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionFile, cfg.SessionTTL)
	if sessions == nil {
		logger.Info("SESSION_SECRET not set - logins will not survive restarts")
	}
	users := user.NewDirectory(result.Store, logger)

	m := menu.New(os.Stdin, os.Stdout, result.Store, provider, sessions, users, logger)
	if err := m.Run(ctx); err != nil {
		logger.Error("Session ended with an error", log.FieldError, err)
		if cerr := result.Cleanup(); cerr != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, cerr)
		}
		os.Exit(1)
	}
}
