// Package store defines the record-store port the finance logic depends on:
// keyed CRUD plus equality-filtered enumeration over named collections of
// schemaless documents.
package store

import "context"

// Collection names used by the application.
const (
	Users        = "users"
	Credentials  = "credentials"
	Budgets      = "budgets"
	Assets       = "assets"
	Transactions = "transactions"
)

type (
	// Filters holds equality predicates on document fields.
	Filters map[string]any

	// Record pairs a document with its store identifier.
	Record struct {
		ID     string
		Fields Document
	}

	// RecordStore is the capability contract for a document collection
	// store. Query returns matches in the store's natural enumeration
	// order; no further ordering is defined.
	RecordStore interface {
		Insert(ctx context.Context, collection string, fields Document) (string, error)
		// GetByID returns a core.NotFoundError when no record has the id.
		GetByID(ctx context.Context, collection, id string) (Document, error)
		// SetByID fully overwrites the record, creating it if absent.
		SetByID(ctx context.Context, collection, id string, fields Document) error
		// UpdateFields merges partial fields into the existing record.
		UpdateFields(ctx context.Context, collection, id string, partial Document) error
		DeleteByID(ctx context.Context, collection, id string) error
		Query(ctx context.Context, collection string, filters Filters) ([]Record, error)
	}
)
