// Package user maps an authenticated user id to a display profile.
package user

import (
	"context"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

type Directory struct {
	store  store.RecordStore
	logger *log.Logger
}

func NewDirectory(rs store.RecordStore, logger *log.Logger) *Directory {
	return &Directory{store: rs, logger: logger.WithComponent(log.ComponentAuth)}
}

// Create writes the profile keyed by the user id. Called once at sign-up;
// profiles are immutable afterwards.
func (d *Directory) Create(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	doc := store.Document{"name": p.Name, "email": p.Email}
	if err := d.store.SetByID(ctx, store.Users, p.UserID, doc); err != nil {
		return core.StoreError{Op: "create user", Err: err}
	}
	d.logger.InfoContext(ctx, "Created user profile", log.FieldUserID, p.UserID)
	return nil
}

func (d *Directory) Get(ctx context.Context, userID string) (core.Profile, error) {
	doc, err := d.store.GetByID(ctx, store.Users, userID)
	if err != nil {
		return core.Profile{}, err
	}
	return core.Profile{
		UserID: userID,
		Name:   doc.String("name"),
		Email:  doc.String("email"),
	}, nil
}
