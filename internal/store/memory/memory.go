// Package memory provides an in-process RecordStore used by tests and as
// the zero-setup backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finman/internal/core"
	"finman/internal/store"
)

type collection struct {
	docs  map[string]store.Document
	order []string // insertion order, the store's natural enumeration order
}

type Store struct {
	mu     sync.Mutex
	seq    int
	tables map[string]*collection
}

func New() *Store {
	return &Store{tables: make(map[string]*collection)}
}

func (s *Store) table(name string) *collection {
	c, ok := s.tables[name]
	if !ok {
		c = &collection{docs: make(map[string]store.Document)}
		s.tables[name] = c
	}
	return c
}

func (s *Store) Insert(_ context.Context, coll string, fields store.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("mem:%d", s.seq)
	c := s.table(coll)
	c.docs[id] = fields.Clone()
	c.order = append(c.order, id)
	return id, nil
}

func (s *Store) GetByID(_ context.Context, coll, id string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.table(coll).docs[id]
	if !ok {
		return nil, core.NotFoundError{Collection: coll, What: "record " + id}
	}
	return doc.Clone(), nil
}

func (s *Store) SetByID(_ context.Context, coll, id string, fields store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.table(coll)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = fields.Clone()
	return nil
}

func (s *Store) UpdateFields(_ context.Context, coll, id string, partial store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.table(coll).docs[id]
	if !ok {
		return core.NotFoundError{Collection: coll, What: "record " + id}
	}
	doc.Merge(partial.Clone())
	return nil
}

func (s *Store) DeleteByID(_ context.Context, coll, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.table(coll)
	if _, ok := c.docs[id]; !ok {
		return core.NotFoundError{Collection: coll, What: "record " + id}
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Query(_ context.Context, coll string, filters store.Filters) ([]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.table(coll)
	var out []store.Record
	for _, id := range c.order {
		doc := c.docs[id]
		if store.Match(doc, filters) {
			out = append(out, store.Record{ID: id, Fields: doc.Clone()})
		}
	}
	return out, nil
}
