package store

import (
	"context"
	"log/slog"
)

// ChangePublisher receives a notification after every successful mutation.
// Publish failures must not fail the originating write.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, op, id string) error
}

// Evented decorates a RecordStore with change-event publishing.
type Evented struct {
	RecordStore
	publisher ChangePublisher
}

// WithEvents wraps inner so successful mutations publish change events.
// A nil publisher returns inner unchanged.
func WithEvents(inner RecordStore, publisher ChangePublisher) RecordStore {
	if publisher == nil {
		return inner
	}
	return &Evented{RecordStore: inner, publisher: publisher}
}

func (e *Evented) Insert(ctx context.Context, collection string, fields Document) (string, error) {
	id, err := e.RecordStore.Insert(ctx, collection, fields)
	if err == nil {
		e.publish(ctx, collection, "insert", id)
	}
	return id, err
}

func (e *Evented) SetByID(ctx context.Context, collection, id string, fields Document) error {
	err := e.RecordStore.SetByID(ctx, collection, id, fields)
	if err == nil {
		e.publish(ctx, collection, "set", id)
	}
	return err
}

func (e *Evented) UpdateFields(ctx context.Context, collection, id string, partial Document) error {
	err := e.RecordStore.UpdateFields(ctx, collection, id, partial)
	if err == nil {
		e.publish(ctx, collection, "update", id)
	}
	return err
}

func (e *Evented) DeleteByID(ctx context.Context, collection, id string) error {
	err := e.RecordStore.DeleteByID(ctx, collection, id)
	if err == nil {
		e.publish(ctx, collection, "delete", id)
	}
	return err
}

func (e *Evented) publish(ctx context.Context, collection, op, id string) {
	if err := e.publisher.PublishChange(ctx, collection, op, id); err != nil {
		// The write already succeeded; the audit trail is best effort.
		slog.WarnContext(ctx, "Failed to publish change event",
			"collection", collection, "op", op, "id", id, "error", err)
	}
}
