package transaction

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finman/internal/asset"
	"finman/internal/budget"
	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
	"finman/internal/store/memory"
)

type fixture struct {
	store  *memory.Store
	budget *budget.Engine
	assets *asset.Ledger
	txns   *Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	if err := budget.EnsureBasicTemplate(ctx, s); err != nil {
		t.Fatal(err)
	}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	b, err := budget.Load(ctx, s, logger, "u1")
	if err != nil {
		t.Fatal(err)
	}
	a := asset.NewLedger(s, logger, "u1")
	return &fixture{store: s, budget: b, assets: a, txns: NewLedger(s, logger, "u1", b, a)}
}

func (f *fixture) at(t *testing.T, day string) {
	t.Helper()
	parsed, err := core.ParseDate(day)
	if err != nil {
		t.Fatal(err)
	}
	f.txns.now = func() time.Time { return parsed }
}

func (f *fixture) defaultAssetValue(t *testing.T) decimal.Decimal {
	t.Helper()
	def, err := f.assets.FindDefault(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return def.Value
}

func TestCreateDebitsDefaultAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.assets.Create(ctx, "Checking", "Bank", decimal.NewFromInt(1000), true); err != nil {
		t.Fatal(err)
	}

	txn, delta, err := f.txns.Create(ctx, decimal.NewFromFloat(150), core.Food, "2025-08-15", "Weekly Groceries", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID == "" || !delta.Applied {
		t.Fatalf("unexpected outcome txn=%+v delta=%+v", txn, delta)
	}
	if got := f.defaultAssetValue(t); !got.Equal(decimal.NewFromInt(850)) {
		t.Fatalf("expected 850, got %s", got)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		amount   decimal.Decimal
		category core.Category
		date     string
	}{
		{"zero amount", decimal.Zero, core.Food, "2025-08-15"},
		{"negative amount", decimal.NewFromInt(-5), core.Food, "2025-08-15"},
		{"invalid category", decimal.NewFromInt(5), core.Category("fun"), "2025-08-15"},
		{"expense is not storable", decimal.NewFromInt(5), core.Category("expense"), "2025-08-15"},
		{"bad date", decimal.NewFromInt(5), core.Food, "15-08-2025"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := f.txns.Create(ctx, tc.amount, tc.category, tc.date, "x", nil); !core.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if txns, _ := f.txns.List(ctx); len(txns) != 0 {
		t.Fatalf("rejected transactions must not persist, got %d", len(txns))
	}
}

func TestCreatePersistsEvenWhenDeltaNotApplied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No assets: the delta cannot land, but the record is still written.
	txn, delta, err := f.txns.Create(ctx, decimal.NewFromInt(20), core.Food, "2025-08-15", "lunch", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if delta.Applied || delta.Err == nil {
		t.Fatalf("expected unapplied delta, got %+v", delta)
	}
	if txn.ID == "" {
		t.Fatal("record must persist despite the unapplied delta")
	}
}

func TestEditReversesNonIncomeByCrediting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.assets.Create(ctx, "Checking", "Bank", decimal.NewFromInt(1000), true)
	txn, _, err := f.txns.Create(ctx, decimal.NewFromInt(100), core.Food, "2025-08-15", "groceries", nil)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 - 100 = 900.

	updated, deltas, err := f.txns.Edit(ctx, txn, decimal.NewFromInt(40), core.Personal, "2025-08-16", "snacks", nil)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(deltas) != 2 || !deltas[0].Applied || !deltas[1].Applied {
		t.Fatalf("unexpected deltas %+v", deltas)
	}
	// Reversal credits 100 (back to 1000), new entry debits 40.
	if got := f.defaultAssetValue(t); !got.Equal(decimal.NewFromInt(960)) {
		t.Fatalf("expected 960, got %s", got)
	}

	txns, _ := f.txns.List(ctx)
	if len(txns) != 1 || txns[0].ID != updated.ID || txns[0].Category != core.Personal {
		t.Fatalf("record not overwritten in place: %+v", txns)
	}
}

func TestEditReversesIncomeByDebitingAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.assets.Create(ctx, "Checking", "Bank", decimal.NewFromInt(1000), true)
	txn, _, err := f.txns.Create(ctx, decimal.NewFromInt(200), core.Income, "2025-08-15", "paycheck", nil)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 + 200 = 1200.

	// Reversing income goes through the "expense" label, which the sign
	// rule debits: 1200 - 200 = 1000, then the new income credits 50.
	_, _, err = f.txns.Edit(ctx, txn, decimal.NewFromInt(50), core.Income, "2025-08-15", "corrected", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.defaultAssetValue(t); !got.Equal(decimal.NewFromInt(1050)) {
		t.Fatalf("expected 1050 (second debit, not a credit), got %s", got)
	}
}

func TestDeleteNeverTouchesAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.assets.Create(ctx, "Checking", "Bank", decimal.NewFromInt(1000), true)
	txn, _, _ := f.txns.Create(ctx, decimal.NewFromInt(100), core.Food, "2025-08-15", "groceries", nil)

	before := f.defaultAssetValue(t)
	if err := f.txns.Delete(ctx, txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.defaultAssetValue(t); !got.Equal(before) {
		t.Fatalf("delete must not change asset value: before=%s after=%s", before, got)
	}
	if txns, _ := f.txns.List(ctx); len(txns) != 0 {
		t.Fatal("record still present after delete")
	}
}

func TestSummarizeMonthly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, "2025-08-20")

	seed := []struct {
		amount   int64
		category core.Category
		date     string
	}{
		{100, core.Food, "2025-08-01"},
		{50, core.Food, "2025-08-19"},
		{30, core.Personal, "2025-08-20"},
		{999, core.Food, "2025-07-31"},  // previous month
		{999, core.Food, "2024-08-10"},  // previous year, same month
		{200, core.Income, "2025-08-05"},
	}
	for _, tc := range seed {
		if _, _, err := f.txns.Create(ctx, decimal.NewFromInt(tc.amount), tc.category, tc.date, "t", nil); err != nil {
			t.Fatal(err)
		}
	}
	// A record with an unparseable date is skipped silently.
	if _, err := f.store.Insert(ctx, store.Transactions, store.Document{
		"userId": "u1", "amount": decimal.NewFromInt(7), "category": "food", "date": "not-a-date",
	}); err != nil {
		t.Fatal(err)
	}

	s, err := f.txns.Summarize(ctx, core.Monthly)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !s.Total(core.Food).Equal(decimal.NewFromInt(150)) {
		t.Fatalf("food: expected 150, got %s", s.Total(core.Food))
	}
	if !s.Total(core.Personal).Equal(decimal.NewFromInt(30)) {
		t.Fatalf("personal: expected 30, got %s", s.Total(core.Personal))
	}
	// Income sums as a raw magnitude in its own bucket.
	if !s.Total(core.Income).Equal(decimal.NewFromInt(200)) {
		t.Fatalf("income: expected 200, got %s", s.Total(core.Income))
	}
	want := []core.Category{core.Food, core.Personal, core.Income}
	got := s.Categories()
	if len(got) != len(want) {
		t.Fatalf("categories: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories out of order: %v", got)
		}
	}
}

func TestSummarizeWeeklyWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, "2025-08-20")

	seed := []struct {
		amount int64
		date   string
	}{
		{10, "2025-08-20"}, // today
		{20, "2025-08-13"}, // exactly 7 days back, inclusive
		{40, "2025-08-12"}, // 8 days back, excluded
	}
	for _, tc := range seed {
		if _, _, err := f.txns.Create(ctx, decimal.NewFromInt(tc.amount), core.Food, tc.date, "t", nil); err != nil {
			t.Fatal(err)
		}
	}

	s, err := f.txns.Summarize(ctx, core.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Total(core.Food).Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 30, got %s", s.Total(core.Food))
	}
}

func TestSummarizeAnnualAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, "2025-08-20")

	f.txns.Create(ctx, decimal.NewFromInt(10), core.Food, "2025-01-01", "t", nil)
	f.txns.Create(ctx, decimal.NewFromInt(99), core.Food, "2024-12-31", "t", nil)

	s, _ := f.txns.Summarize(ctx, core.Annual)
	if !s.Total(core.Food).Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", s.Total(core.Food))
	}

	f.at(t, "2030-01-01")
	s, _ = f.txns.Summarize(ctx, core.Weekly)
	if !s.IsEmpty() {
		t.Fatalf("expected empty summary, got %v", s.Categories())
	}

	if _, err := f.txns.Summarize(ctx, core.Period("daily")); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCompareToBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, "2025-08-20")

	if err := f.budget.SetAnnualIncome(ctx, decimal.NewFromInt(52000)); err != nil {
		t.Fatal(err)
	}
	if err := f.budget.SetPercentage(core.Food, decimal.NewFromInt(10)); err != nil {
		t.Fatal(err)
	}
	// Weekly food budget: 52000/52 * 10% = 100.

	f.assets.Create(ctx, "Checking", "Bank", decimal.NewFromInt(1000), true)
	f.txns.Create(ctx, decimal.NewFromInt(120), core.Food, "2025-08-19", "groceries", nil)
	f.txns.Create(ctx, decimal.NewFromInt(500), core.Income, "2025-08-19", "paycheck", nil)

	s, err := f.txns.Summarize(ctx, core.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	lines := f.txns.CompareToBudget(s)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}

	food := lines[0]
	if food.Category != core.Food || !food.HasBudget || !food.Over {
		t.Fatalf("unexpected food line %+v", food)
	}
	if !food.Budgeted.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected weekly food budget 100, got %s", food.Budgeted)
	}

	income := lines[1]
	if income.Category != core.Income || income.HasBudget {
		t.Fatalf("income must report no budget: %+v", income)
	}
}

func TestEndToEndBudgetAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// income=52000, housing=20, saving adjusted so the total stays 100.
	if err := f.budget.SetAnnualIncome(ctx, decimal.NewFromInt(52000)); err != nil {
		t.Fatal(err)
	}
	shift := decimal.NewFromInt(20).Sub(f.budget.Percentage(core.Housing))
	if err := f.budget.SetPercentage(core.Housing, decimal.NewFromInt(20)); err != nil {
		t.Fatal(err)
	}
	if err := f.budget.SetPercentage(core.Saving, f.budget.Percentage(core.Saving).Sub(shift)); err != nil {
		t.Fatal(err)
	}
	if err := f.budget.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := f.budget.Allocation(core.Housing, core.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "200.00" {
		t.Fatalf("expected 200.00, got %s", got.StringFixed(2))
	}
}
