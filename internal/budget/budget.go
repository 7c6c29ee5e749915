// Package budget owns a user's percentage-based budget: eleven category
// percentages that must sum to 100 before a commit, plus the annual income
// they are prorated from.
package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

// BasicBudgetID is the well-known id of the shared read-only template used
// when a user has no budget record yet.
const BasicBudgetID = "basic"

var hundred = decimal.NewFromInt(100)

// Engine holds a user's working budget state. Edits stay in memory until
// Commit; a session that never validates leaves the persisted budget
// untouched.
type Engine struct {
	store  store.RecordStore
	logger *log.Logger
	userID string

	recordID     string
	isBasic      bool
	annualIncome decimal.Decimal
	percents     map[core.Category]decimal.Decimal
}

// Load fetches the user's budget record, falling back to the basic
// template when none exists. A missing template is unrecoverable: the
// caller is expected to abort startup.
func Load(ctx context.Context, rs store.RecordStore, logger *log.Logger, userID string) (*Engine, error) {
	e := &Engine{
		store:    rs,
		logger:   logger.WithComponent(log.ComponentBudget),
		userID:   userID,
		percents: make(map[core.Category]decimal.Decimal),
	}

	recs, err := rs.Query(ctx, store.Budgets, store.Filters{"userId": userID})
	if err != nil {
		return nil, core.StoreError{Op: "load budget", Err: err}
	}

	var doc store.Document
	if len(recs) > 0 {
		e.recordID = recs[0].ID
		doc = recs[0].Fields
	} else {
		e.logger.InfoContext(ctx, "User budget not found, using basic budget",
			log.FieldUserID, userID)
		doc, err = rs.GetByID(ctx, store.Budgets, BasicBudgetID)
		if err != nil {
			return nil, err
		}
		e.recordID = BasicBudgetID
		e.isBasic = true
	}

	e.annualIncome = doc.Decimal("annIncome")
	for _, cat := range core.BudgetCategories() {
		e.percents[cat] = doc.Decimal(string(cat))
	}
	return e, nil
}

// IsBasic reports whether the engine still carries the unmodified template,
// i.e. the user has no budget record of their own yet.
func (e *Engine) IsBasic() bool { return e.isBasic }

func (e *Engine) AnnualIncome() decimal.Decimal { return e.annualIncome }

// Percentage returns the working percentage for a budget category.
func (e *Engine) Percentage(cat core.Category) decimal.Decimal {
	return e.percents[cat]
}

// Total sums the eleven working percentages.
func (e *Engine) Total() decimal.Decimal {
	total := decimal.Zero
	for _, cat := range core.BudgetCategories() {
		total = total.Add(e.percents[cat])
	}
	return total
}

// Allocation returns the prorated amount budgeted for a category over a
// period: income/divisor * percentage/100. The weekly divisor is 52 here
// even though the budget overview displays income/12; the overview label
// is a display-layer quirk, not an allocation input.
func (e *Engine) Allocation(cat core.Category, period core.Period) (decimal.Decimal, error) {
	if err := period.Validate(); err != nil {
		return decimal.Zero, err
	}
	if !cat.IsBudgetCategory() {
		return decimal.Zero, core.NotFoundError{Collection: store.Budgets, What: "allocation for " + string(cat)}
	}
	income := e.annualIncome.Div(period.Divisor())
	return income.Mul(e.percents[cat]).Div(hundred), nil
}

// SetPercentage overwrites the working percentage without persisting.
func (e *Engine) SetPercentage(cat core.Category, percent decimal.Decimal) error {
	if !cat.IsBudgetCategory() {
		return core.ValidationError{Field: "category", Reason: string(cat) + " has no budget percentage"}
	}
	if percent.Sign() < 0 {
		return core.ValidationError{Field: "percentage", Reason: "must not be negative"}
	}
	e.percents[cat] = percent
	return nil
}

// SetAmount converts a dollar amount into a percentage of referenceIncome
// and overwrites the working value without persisting.
func (e *Engine) SetAmount(cat core.Category, amount, referenceIncome decimal.Decimal) error {
	if referenceIncome.Sign() <= 0 {
		return core.ValidationError{Field: "income", Reason: "reference income must be positive"}
	}
	if amount.Sign() < 0 {
		return core.ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return e.SetPercentage(cat, amount.Div(referenceIncome).Mul(hundred))
}

// ValidateTotal succeeds only when the working percentages sum to 100
// within the tolerance.
func (e *Engine) ValidateTotal() error {
	total := e.Total()
	if total.Sub(hundred).Abs().GreaterThan(core.PercentTolerance) {
		return core.ValidationError{
			Field:  "percentages",
			Reason: "must total 100, current total " + total.String(),
		}
	}
	return nil
}

// Commit validates and persists the working state. The first commit for a
// user clones the template into a new record tagged with the user id.
func (e *Engine) Commit(ctx context.Context) error {
	if err := e.ValidateTotal(); err != nil {
		return err
	}
	return e.persist(ctx)
}

// SetAnnualIncome overwrites the income and persists immediately. Income
// changes are not subject to the 100% gate.
func (e *Engine) SetAnnualIncome(ctx context.Context, income decimal.Decimal) error {
	if income.Sign() < 0 {
		return core.ValidationError{Field: "income", Reason: "must not be negative"}
	}
	e.annualIncome = income
	return e.persist(ctx)
}

func (e *Engine) persist(ctx context.Context) error {
	doc := store.Document{
		"userId":    e.userID,
		"annIncome": e.annualIncome,
	}
	for _, cat := range core.BudgetCategories() {
		doc[string(cat)] = e.percents[cat]
	}

	if e.isBasic {
		id, err := e.store.Insert(ctx, store.Budgets, doc)
		if err != nil {
			return core.StoreError{Op: "create budget", Err: err}
		}
		e.recordID = id
		e.isBasic = false
		e.logger.InfoContext(ctx, "Created user budget",
			log.FieldUserID, e.userID, log.FieldRecordID, id)
		return nil
	}

	if err := e.store.SetByID(ctx, store.Budgets, e.recordID, doc); err != nil {
		return core.StoreError{Op: "save budget", Err: err}
	}
	e.logger.InfoContext(ctx, "Saved budget",
		log.FieldUserID, e.userID, log.FieldRecordID, e.recordID)
	return nil
}

// Reload discards the working state and re-reads the backing record. Used
// when an edit session ends without a valid total: the prior committed
// state stays authoritative.
func (e *Engine) Reload(ctx context.Context) error {
	doc, err := e.store.GetByID(ctx, store.Budgets, e.recordID)
	if err != nil {
		return err
	}
	e.annualIncome = doc.Decimal("annIncome")
	for _, cat := range core.BudgetCategories() {
		e.percents[cat] = doc.Decimal(string(cat))
	}
	return nil
}

// BasicTemplate is the seed document for the shared template. The sqlite
// backend seeds it by migration; EnsureBasicTemplate covers the others.
func BasicTemplate() store.Document {
	return store.Document{
		"annIncome":  decimal.NewFromInt(50000),
		"housing":    decimal.NewFromInt(25),
		"insurance":  decimal.NewFromInt(10),
		"food":       decimal.NewFromInt(10),
		"saving":     decimal.NewFromInt(10),
		"transport":  decimal.NewFromInt(10),
		"giving":     decimal.NewFromInt(5),
		"personal":   decimal.NewFromInt(5),
		"recreation": decimal.NewFromInt(5),
		"utilities":  decimal.NewFromInt(10),
		"medical":    decimal.NewFromInt(5),
		"clothing":   decimal.NewFromInt(5),
	}
}

// EnsureBasicTemplate seeds the basic budget template if it is missing.
func EnsureBasicTemplate(ctx context.Context, rs store.RecordStore) error {
	_, err := rs.GetByID(ctx, store.Budgets, BasicBudgetID)
	if err == nil {
		return nil
	}
	if !core.IsNotFound(err) {
		return err
	}
	return rs.SetByID(ctx, store.Budgets, BasicBudgetID, BasicTemplate())
}
