// Package sqlite implements the RecordStore port on a local SQLite file,
// storing each record as a JSON document keyed by (collection, id).
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"finman/internal/core"
	"finman/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields store.Document) (string, error) {
	id, err := newRecordID()
	if err != nil {
		return "", core.StoreError{Op: "insert", Err: err}
	}
	body, err := encode(fields)
	if err != nil {
		return "", core.StoreError{Op: "insert", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, fields) VALUES (?, ?, ?)`,
		collection, id, body)
	if err != nil {
		return "", core.StoreError{Op: "insert", Err: err}
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (store.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE collection = ? AND id = ?`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NotFoundError{Collection: collection, What: "record " + id}
	}
	if err != nil {
		return nil, core.StoreError{Op: "get", Err: err}
	}
	return decode(body)
}

func (s *Store) SetByID(ctx context.Context, collection, id string, fields store.Document) error {
	body, err := encode(fields)
	if err != nil {
		return core.StoreError{Op: "set", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, fields) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields`,
		collection, id, body)
	if err != nil {
		return core.StoreError{Op: "set", Err: err}
	}
	return nil
}

func (s *Store) UpdateFields(ctx context.Context, collection, id string, partial store.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.StoreError{Op: "update", Err: err}
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE collection = ? AND id = ?`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFoundError{Collection: collection, What: "record " + id}
	}
	if err != nil {
		return core.StoreError{Op: "update", Err: err}
	}

	doc, err := decode(body)
	if err != nil {
		return core.StoreError{Op: "update", Err: err}
	}
	doc.Merge(partial)

	merged, err := encode(doc)
	if err != nil {
		return core.StoreError{Op: "update", Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET fields = ? WHERE collection = ? AND id = ?`,
		merged, collection, id); err != nil {
		return core.StoreError{Op: "update", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return core.StoreError{Op: "update", Err: err}
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`,
		collection, id)
	if err != nil {
		return core.StoreError{Op: "delete", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NotFoundError{Collection: collection, What: "record " + id}
	}
	return nil
}

// Query scans the collection in rowid order and applies the equality
// filters in process. Collections here are per-user working sets, small
// enough that no index support is needed.
func (s *Store) Query(ctx context.Context, collection string, filters store.Filters) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields FROM records WHERE collection = ? ORDER BY rowid`,
		collection)
	if err != nil {
		return nil, core.StoreError{Op: "query", Err: err}
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, core.StoreError{Op: "query", Err: err}
		}
		doc, err := decode(body)
		if err != nil {
			return nil, core.StoreError{Op: "query", Err: err}
		}
		if store.Match(doc, filters) {
			out = append(out, store.Record{ID: id, Fields: doc})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, core.StoreError{Op: "query", Err: err}
	}
	return out, nil
}

func encode(doc store.Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(body), nil
}

// decode parses stored JSON with UseNumber so monetary fields survive the
// round trip without float truncation.
func decode(body string) (store.Document, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var doc store.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func newRecordID() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate record id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
