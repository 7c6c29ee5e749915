// Package menu is the interactive terminal surface: authentication, the
// main menu and the budget, transaction and asset submenus. It renders
// domain results and errors; the domain packages never print.
package menu

import (
	"bufio"
	"context"
	"errors"
	"io"

	"finman/internal/asset"
	"finman/internal/auth"
	"finman/internal/budget"
	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
	"finman/internal/transaction"
	"finman/internal/user"
)

type Menu struct {
	in       *bufio.Scanner
	out      io.Writer
	store    store.RecordStore
	provider auth.Provider
	sessions *auth.SessionManager // nil disables session resume
	users    *user.Directory
	logger   *log.Logger
}

func New(in io.Reader, out io.Writer, rs store.RecordStore, provider auth.Provider, sessions *auth.SessionManager, users *user.Directory, logger *log.Logger) *Menu {
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		store:    rs,
		provider: provider,
		sessions: sessions,
		users:    users,
		logger:   logger.WithComponent(log.ComponentMenu),
	}
}

// Run resumes a saved session when one is still valid, otherwise walks
// the user through sign in or sign up, then hands off to the main menu.
func (m *Menu) Run(ctx context.Context) error {
	userID := ""
	if m.sessions != nil {
		id, err := m.sessions.Resume()
		switch {
		case err == nil:
			m.printf("Welcome back!\n")
			userID = id
		case !errors.Is(err, auth.ErrNoSession):
			m.logger.WarnContext(ctx, "Could not resume session", log.FieldError, err)
		}
	}
	if userID == "" {
		id, ok := m.authenticate(ctx)
		if !ok {
			return nil
		}
		userID = id
	}
	return m.session(ctx, userID)
}

// authenticate runs one sign-in or sign-up attempt. A failed attempt
// returns to the caller rather than looping.
func (m *Menu) authenticate(ctx context.Context) (string, bool) {
	m.printf("Welcome to the Finance Manager!\n")
	m.printf("1. Log in\n2. Sign up\n3. Quit\n")
	choice, ok := m.promptChoice("Choose an option: ", 3)
	if !ok || choice == 3 {
		return "", false
	}

	if choice == 1 {
		return m.signIn(ctx)
	}
	return m.signUp(ctx)
}

func (m *Menu) signIn(ctx context.Context) (string, bool) {
	email, ok := m.promptText("Email: ")
	if !ok {
		return "", false
	}
	password, ok := m.promptText("Password: ")
	if !ok {
		return "", false
	}

	id, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			m.printf("Invalid email or password. Please try again.\n")
		} else {
			m.printf("Sign in failed: %v\n", err)
		}
		return "", false
	}
	m.issueSession(ctx, id)
	return id, true
}

func (m *Menu) signUp(ctx context.Context) (string, bool) {
	name, ok := m.promptText("Name: ")
	if !ok {
		return "", false
	}
	email, ok := m.promptText("Email: ")
	if !ok {
		return "", false
	}
	password, ok := m.promptText("Password: ")
	if !ok {
		return "", false
	}

	id, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmailTaken):
			m.printf("That email is already registered. Try logging in instead.\n")
		case core.IsValidation(err):
			m.printf("%v\n", err)
		default:
			m.printf("Sign up failed: %v\n", err)
		}
		return "", false
	}

	if err := m.users.Create(ctx, core.Profile{UserID: id, Name: name, Email: email}); err != nil {
		m.logger.WarnContext(ctx, "Could not save user profile",
			log.FieldUserID, id, log.FieldError, err)
	}
	m.printf("Account created.\n")
	m.issueSession(ctx, id)
	return id, true
}

func (m *Menu) issueSession(ctx context.Context, userID string) {
	if m.sessions == nil {
		return
	}
	if _, err := m.sessions.Issue(userID); err != nil {
		m.logger.WarnContext(ctx, "Could not save session",
			log.FieldUserID, userID, log.FieldError, err)
	}
}

// session wires the per-user domain services and loops over the main
// menu. A missing budget template is unrecoverable and ends the run.
func (m *Menu) session(ctx context.Context, userID string) error {
	profile, err := m.users.Get(ctx, userID)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		m.logger.WarnContext(ctx, "User profile not found", log.FieldUserID, userID)
	}

	engine, err := budget.Load(ctx, m.store, m.logger, userID)
	if err != nil {
		return err
	}
	assets := asset.NewLedger(m.store, m.logger, userID)
	txns := transaction.NewLedger(m.store, m.logger, userID, engine, assets)

	for {
		if profile.Name != "" {
			m.printf("\nWelcome %s!\n", profile.Name)
		} else {
			m.printf("\nWelcome!\n")
		}
		m.printf("1. Budget\n2. Transactions\n3. Assets\n4. Quit\n")
		choice, ok := m.promptChoice("Choose an option: ", 4)
		if !ok {
			return nil
		}
		switch choice {
		case 1:
			m.budgetMenu(ctx, engine)
		case 2:
			m.transactionMenu(ctx, txns)
		case 3:
			m.assetMenu(ctx, assets)
		case 4:
			m.printf("Thanks for using the Finance Manager!\n")
			return nil
		}
	}
}
