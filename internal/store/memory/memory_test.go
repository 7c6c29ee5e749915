package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"finman/internal/core"
	"finman/internal/store"
)

func TestInsertGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, store.Assets, store.Document{"name": "Checking", "value": decimal.NewFromInt(1000)})
	if err != nil || id == "" {
		t.Fatalf("insert: id=%q err=%v", id, err)
	}

	doc, err := s.GetByID(ctx, store.Assets, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.String("name") != "Checking" {
		t.Fatalf("unexpected doc %v", doc)
	}

	if err := s.DeleteByID(ctx, store.Assets, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, store.Assets, id); !core.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestUpdateFieldsMergesPartial(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.Insert(ctx, store.Assets, store.Document{
		"name":  "Checking",
		"value": decimal.NewFromInt(1000),
	})

	if err := s.UpdateFields(ctx, store.Assets, id, store.Document{"value": decimal.NewFromInt(850)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, _ := s.GetByID(ctx, store.Assets, id)
	if doc.String("name") != "Checking" {
		t.Fatal("partial update must not drop unrelated fields")
	}
	if !doc.Decimal("value").Equal(decimal.NewFromInt(850)) {
		t.Fatalf("expected 850, got %s", doc.Decimal("value"))
	}

	if err := s.UpdateFields(ctx, store.Assets, "missing", store.Document{"value": decimal.Zero}); !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSetByIDUpserts(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SetByID(ctx, store.Budgets, "basic", store.Document{"annIncome": decimal.NewFromInt(50000)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, err := s.GetByID(ctx, store.Budgets, "basic")
	if err != nil || !doc.Decimal("annIncome").Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("upsert failed: doc=%v err=%v", doc, err)
	}
}

func TestQueryEqualityAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		userID := "u1"
		if name == "b" {
			userID = "u2"
		}
		if _, err := s.Insert(ctx, store.Assets, store.Document{"userId": userID, "name": name}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	recs, err := s.Query(ctx, store.Assets, store.Filters{"userId": "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 || recs[0].Fields.String("name") != "a" || recs[1].Fields.String("name") != "c" {
		t.Fatalf("unexpected results: %+v", recs)
	}

	recs, _ = s.Query(ctx, store.Assets, store.Filters{"userId": "u1", "name": "c"})
	if len(recs) != 1 {
		t.Fatalf("expected single match, got %d", len(recs))
	}

	recs, _ = s.Query(ctx, store.Assets, store.Filters{"userId": "nobody"})
	if len(recs) != 0 {
		t.Fatalf("expected no matches, got %d", len(recs))
	}
}

func TestReadsAreIsolatedCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.Insert(ctx, store.Users, store.Document{"name": "Ann"})
	doc, _ := s.GetByID(ctx, store.Users, id)
	doc["name"] = "Bob"

	again, _ := s.GetByID(ctx, store.Users, id)
	if again.String("name") != "Ann" {
		t.Fatal("mutating a returned document must not affect the store")
	}
}
