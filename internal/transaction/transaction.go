// Package transaction records dated, categorized monetary events, drives
// asset balance updates and produces period summaries with budget
// comparisons.
package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finman/internal/asset"
	"finman/internal/budget"
	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

// reversalExpense labels the reversal of an income entry. It is not one of
// the twelve stored categories, so the delta sign rule debits it: undoing
// an income entry debits a second time instead of crediting. See DESIGN.md
// before changing this.
const reversalExpense = core.Category("expense")

type (
	// Transaction as stored: the amount is always positive, direction is
	// inferred from the category.
	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Category    core.Category
		Date        string // YYYY-MM-DD
		Description string
	}

	// DeltaResult reports what happened to the asset balance side effect
	// of a create or edit. A failed delta never rolls back the record
	// write; the presentation layer renders Err.
	DeltaResult struct {
		Applied bool
		Asset   asset.Asset
		Err     error
	}

	// Summary holds per-category totals of raw transaction magnitudes for
	// one period. Income is not netted against expenses.
	Summary struct {
		Period core.Period
		totals map[core.Category]decimal.Decimal
	}

	// Comparison lines up spent against budgeted for one category.
	Comparison struct {
		Category  core.Category
		Spent     decimal.Decimal
		Budgeted  decimal.Decimal
		HasBudget bool
		Over      bool
	}

	Ledger struct {
		store  store.RecordStore
		logger *log.Logger
		userID string
		budget *budget.Engine
		assets *asset.Ledger
		now    func() time.Time
	}
)

func NewLedger(rs store.RecordStore, logger *log.Logger, userID string, b *budget.Engine, a *asset.Ledger) *Ledger {
	return &Ledger{
		store:  rs,
		logger: logger.WithComponent(log.ComponentTxn),
		userID: userID,
		budget: b,
		assets: a,
		now:    time.Now,
	}
}

// List re-reads the user's transactions in the store's natural order.
func (l *Ledger) List(ctx context.Context) ([]Transaction, error) {
	recs, err := l.store.Query(ctx, store.Transactions, store.Filters{"userId": l.userID})
	if err != nil {
		return nil, core.StoreError{Op: "list transactions", Err: err}
	}
	txns := make([]Transaction, len(recs))
	for i, rec := range recs {
		txns[i] = fromRecord(rec)
	}
	return txns, nil
}

// Create validates, applies the asset delta, then persists the record. The
// delta happens first; a delta that cannot be applied is reported through
// DeltaResult while the record is still written.
func (l *Ledger) Create(ctx context.Context, amount decimal.Decimal, category core.Category, date, description string, pick asset.Picker) (Transaction, DeltaResult, error) {
	txn := Transaction{Amount: amount, Category: category, Date: date, Description: description}
	if err := txn.Validate(); err != nil {
		return Transaction{}, DeltaResult{}, err
	}

	delta := l.applyDelta(ctx, amount, category, pick)

	id, err := l.store.Insert(ctx, store.Transactions, l.toDocument(txn))
	if err != nil {
		return Transaction{}, delta, core.StoreError{Op: "create transaction", Err: err}
	}
	txn.ID = id

	l.logger.InfoContext(ctx, "Added transaction",
		log.FieldCategory, string(category),
		log.FieldAmount, amount.StringFixed(2),
		"date", date)
	return txn, delta, nil
}

// Edit reverses the old entry's effect on the asset, applies the new one,
// and overwrites the record. An income entry reverses under the expense
// label, so its reversal debits (see reversalExpense). Neither delta
// failure prevents the record write.
func (l *Ledger) Edit(ctx context.Context, existing Transaction, amount decimal.Decimal, category core.Category, date, description string, pick asset.Picker) (Transaction, []DeltaResult, error) {
	if existing.ID == "" {
		return Transaction{}, nil, core.ValidationError{Field: "transaction", Reason: "missing record id"}
	}
	updated := Transaction{ID: existing.ID, Amount: amount, Category: category, Date: date, Description: description}
	if err := updated.Validate(); err != nil {
		return Transaction{}, nil, err
	}

	reverseAs := core.Income
	if existing.Category == core.Income {
		reverseAs = reversalExpense
	}
	deltas := []DeltaResult{
		l.applyDelta(ctx, existing.Amount, reverseAs, pick),
		l.applyDelta(ctx, amount, category, pick),
	}

	if err := l.store.SetByID(ctx, store.Transactions, existing.ID, l.toDocument(updated)); err != nil {
		return Transaction{}, deltas, core.StoreError{Op: "update transaction", Err: err}
	}

	l.logger.InfoContext(ctx, "Updated transaction",
		log.FieldRecordID, existing.ID,
		log.FieldCategory, string(category),
		log.FieldAmount, amount.StringFixed(2))
	return updated, deltas, nil
}

// Delete removes the record. It intentionally performs no asset-balance
// reversal: the asset keeps whatever value the transaction last set.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := l.store.DeleteByID(ctx, store.Transactions, id); err != nil {
		if core.IsNotFound(err) {
			return err
		}
		return core.StoreError{Op: "delete transaction", Err: err}
	}
	l.logger.InfoContext(ctx, "Deleted transaction", log.FieldRecordID, id)
	return nil
}

func (l *Ledger) applyDelta(ctx context.Context, amount decimal.Decimal, category core.Category, pick asset.Picker) DeltaResult {
	target, err := l.assets.ApplyTransactionDelta(ctx, amount, category, pick)
	if err != nil {
		l.logger.WarnContext(ctx, "Transaction delta not applied",
			log.FieldCategory, string(category),
			log.FieldAmount, amount.StringFixed(2),
			log.FieldError, err)
		return DeltaResult{Err: err}
	}
	return DeltaResult{Applied: true, Asset: target}
}

// Summarize groups the user's transactions for the period by category and
// sums their stored (positive) amounts. Records with unparseable dates are
// skipped.
func (l *Ledger) Summarize(ctx context.Context, period core.Period) (Summary, error) {
	if err := period.Validate(); err != nil {
		return Summary{}, err
	}
	txns, err := l.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s := Summary{Period: period, totals: make(map[core.Category]decimal.Decimal)}
	for _, txn := range txns {
		d, err := core.ParseDate(txn.Date)
		if err != nil {
			continue
		}
		if !inPeriod(period, today, d) {
			continue
		}
		s.totals[txn.Category] = s.totals[txn.Category].Add(txn.Amount)
	}
	return s, nil
}

// inPeriod applies the window rules: weekly means a day difference of at
// most 7 (future dates in range count), monthly the same calendar month
// and year, annual the same year.
func inPeriod(period core.Period, today, d time.Time) bool {
	switch period {
	case core.Weekly:
		return int(today.Sub(d).Hours()/24) <= 7
	case core.Monthly:
		return d.Month() == today.Month() && d.Year() == today.Year()
	default:
		return d.Year() == today.Year()
	}
}

// CompareToBudget lines each summarized category up against its prorated
// allocation. Categories without a budget (income) get a no-budget line
// instead of an error.
func (l *Ledger) CompareToBudget(summary Summary) []Comparison {
	var out []Comparison
	for _, cat := range summary.Categories() {
		spent := summary.Total(cat)
		budgeted, err := l.budget.Allocation(cat, summary.Period)
		if err != nil {
			out = append(out, Comparison{Category: cat, Spent: spent})
			continue
		}
		out = append(out, Comparison{
			Category:  cat,
			Spent:     spent,
			Budgeted:  budgeted,
			HasBudget: true,
			Over:      spent.GreaterThan(budgeted),
		})
	}
	return out
}

// Categories returns the categories present in the summary, in the
// canonical display order.
func (s Summary) Categories() []core.Category {
	var out []core.Category
	for _, cat := range core.TransactionCategories() {
		if _, ok := s.totals[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// Total returns the summed amount for one category.
func (s Summary) Total(cat core.Category) decimal.Decimal {
	return s.totals[cat]
}

// IsEmpty reports whether the period contained no transactions.
func (s Summary) IsEmpty() bool { return len(s.totals) == 0 }

func (t Transaction) Validate() error {
	if t.Amount.Sign() <= 0 {
		return core.ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if _, err := core.ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if _, err := core.ParseDate(t.Date); err != nil {
		return err
	}
	return nil
}

func (l *Ledger) toDocument(t Transaction) store.Document {
	return store.Document{
		"userId":      l.userID,
		"amount":      t.Amount,
		"category":    string(t.Category),
		"date":        t.Date,
		"description": t.Description,
	}
}

func fromRecord(rec store.Record) Transaction {
	return Transaction{
		ID:          rec.ID,
		Amount:      rec.Fields.Decimal("amount"),
		Category:    core.Category(rec.Fields.String("category")),
		Date:        rec.Fields.String("date"),
		Description: rec.Fields.String("description"),
	}
}
