package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store/memory"
)

func newDirectory() *Directory {
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewDirectory(memory.New(), logger)
}

func TestCreateAndGet(t *testing.T) {
	d := newDirectory()
	ctx := context.Background()

	p := core.Profile{UserID: "u1", Name: "Ann", Email: "ann@example.com"}
	if err := d.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := d.Get(ctx, "u1")
	if err != nil || got != p {
		t.Fatalf("get: %+v err=%v", got, err)
	}
}

func TestGetMissingUser(t *testing.T) {
	d := newDirectory()
	if _, err := d.Get(context.Background(), "nobody"); !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	d := newDirectory()
	ctx := context.Background()

	if err := d.Create(ctx, core.Profile{UserID: "u1", Name: "", Email: "a@b"}); !core.IsValidation(err) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if err := d.Create(ctx, core.Profile{UserID: "u1", Name: "Ann", Email: "nope"}); !core.IsValidation(err) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
}
