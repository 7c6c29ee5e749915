package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"finman/internal/core"
	"finman/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "finman.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsSeedBasicBudget(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.GetByID(context.Background(), store.Budgets, "basic")
	if err != nil {
		t.Fatalf("get basic budget: %v", err)
	}
	if got := doc.Decimal("annIncome"); !got.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("annIncome = %s, want 50000", got)
	}

	total := decimal.Zero
	for _, cat := range core.BudgetCategories() {
		total = total.Add(doc.Decimal(string(cat)))
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("template percentages total %s, want 100", total)
	}
}

func TestInsertGetRoundTripKeepsDecimalsExact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	amount := decimal.RequireFromString("1234.56")
	id, err := s.Insert(ctx, store.Transactions, store.Document{
		"userId":   "u1",
		"amount":   amount,
		"category": "food",
		"date":     "2026-08-30",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	doc, err := s.GetByID(ctx, store.Transactions, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := doc.Decimal("amount"); !got.Equal(amount) {
		t.Errorf("amount = %s, want %s", got, amount)
	}
	if got := doc.String("category"); got != "food" {
		t.Errorf("category = %q, want %q", got, "food")
	}
}

func TestUpdateFieldsMergesWithoutClobbering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, store.Assets, store.Document{
		"userId": "u1",
		"name":   "Checking",
		"type":   "checking",
		"value":  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.UpdateFields(ctx, store.Assets, id, store.Document{
		"value": decimal.RequireFromString("42.50"),
	}); err != nil {
		t.Fatalf("update fields: %v", err)
	}

	doc, err := s.GetByID(ctx, store.Assets, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := doc.String("name"); got != "Checking" {
		t.Errorf("name = %q, want it untouched", got)
	}
	if got := doc.Decimal("value"); !got.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("value = %s, want 42.50", got)
	}
}

func TestQueryFiltersAndKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		id, err := s.Insert(ctx, store.Assets, store.Document{"userId": "u1", "name": name})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := s.Insert(ctx, store.Assets, store.Document{"userId": "u2", "name": "other"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	recs, err := s.Query(ctx, store.Assets, store.Filters{"userId": "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("query returned %d records, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.ID != ids[i] {
			t.Errorf("record %d id = %q, want %q (insertion order)", i, rec.ID, ids[i])
		}
	}
}

func TestDeleteByIDThenGetIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, store.Users, store.Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.DeleteByID(ctx, store.Users, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, store.Users, id); !core.IsNotFound(err) {
		t.Errorf("get after delete = %v, want not found", err)
	}
	if err := s.DeleteByID(ctx, store.Users, id); !core.IsNotFound(err) {
		t.Errorf("second delete = %v, want not found", err)
	}
}
