// Package backend wires a RecordStore implementation from configuration,
// optionally decorated with AMQP change-event publishing.
package backend

import (
	"fmt"

	"finman/internal/amqp"
	"finman/internal/config"
	"finman/internal/log"
	"finman/internal/store"
	"finman/internal/store/memory"
	"finman/internal/store/sqlite"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result contains the assembled store and its cleanup function.
type Result struct {
	Store   store.RecordStore
	Cleanup CleanupFunc
}

// Create builds the record store selected by cfg.DataBackend. The AMQP
// client is optional: when the broker is unreachable the store runs
// without an audit trail rather than failing startup.
func Create(cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	var (
		inner   store.RecordStore
		cleanup CleanupFunc
	)

	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		inner = s
		cleanup = s.Close
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case "memory":
		inner = memory.New()
		cleanup = func() error { return nil }
		logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}

	var publisher store.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without audit trail", "error", err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			publisher = client
			innerCleanup := cleanup
			cleanup = func() error {
				client.Close()
				return innerCleanup()
			}
		}
	}

	return &Result{
		Store:   store.WithEvents(inner, publisher),
		Cleanup: cleanup,
	}, nil
}
