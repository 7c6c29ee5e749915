// Package auth provides the email/password identity provider and the
// signed session tokens that let a login survive process restarts.
package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

// Provider is the identity contract the application depends on: sign-up
// and sign-in against an email/password pair, yielding an opaque user id.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
}

// LocalProvider keeps credentials in the record store, bcrypt-hashed.
type LocalProvider struct {
	store  store.RecordStore
	logger *log.Logger
}

func NewLocalProvider(rs store.RecordStore, logger *log.Logger) *LocalProvider {
	return &LocalProvider{store: rs, logger: logger.WithComponent(log.ComponentAuth)}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return "", core.ValidationError{Field: "email", Reason: "invalid email"}
	}
	if len(password) < 6 {
		return "", core.ValidationError{Field: "password", Reason: "too short (min 6)"}
	}

	existing, err := p.store.Query(ctx, store.Credentials, store.Filters{"email": email})
	if err != nil {
		return "", core.StoreError{Op: "sign up", Err: err}
	}
	if len(existing) > 0 {
		return "", core.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	userID, err := p.store.Insert(ctx, store.Credentials, store.Document{
		"email":        email,
		"passwordHash": string(hash),
	})
	if err != nil {
		return "", core.StoreError{Op: "sign up", Err: err}
	}

	p.logger.InfoContext(ctx, "Signup successful", log.FieldUserID, userID)
	return userID, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	recs, err := p.store.Query(ctx, store.Credentials, store.Filters{"email": email})
	if err != nil {
		return "", core.StoreError{Op: "sign in", Err: err}
	}
	if len(recs) == 0 {
		return "", core.ErrInvalidCredentials
	}

	hash := recs[0].Fields.String("passwordHash")
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", core.ErrInvalidCredentials
	}

	p.logger.InfoContext(ctx, "Login successful", log.FieldUserID, recs[0].ID)
	return recs[0].ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
