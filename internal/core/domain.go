package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Annual  Period = "annual"
)

const (
	Housing    Category = "housing"
	Insurance  Category = "insurance"
	Food       Category = "food"
	Saving     Category = "saving"
	Transport  Category = "transport"
	Giving     Category = "giving"
	Personal   Category = "personal"
	Recreation Category = "recreation"
	Utilities  Category = "utilities"
	Medical    Category = "medical"
	Clothing   Category = "clothing"
	Income     Category = "income"
)

// DateLayout is the wire and display format for transaction dates.
const DateLayout = "2006-01-02"

type (
	Period string

	Category string

	// Profile is the directory record kept per user at sign-up.
	Profile struct {
		UserID string
		Name   string
		Email  string
	}
)

// budgetCategories is the closed, ordered set of categories a budget
// allocates percentages to. Order matters: pickers present it 1-based.
var budgetCategories = []Category{
	Housing, Insurance, Food, Saving, Transport,
	Giving, Personal, Recreation, Utilities, Medical, Clothing,
}

// BudgetCategories returns the eleven budget categories in display order.
func BudgetCategories() []Category {
	return append([]Category(nil), budgetCategories...)
}

// TransactionCategories returns the twelve valid transaction categories:
// the budget categories plus income.
func TransactionCategories() []Category {
	return append(BudgetCategories(), Income)
}

// ParseCategory matches a label against the twelve transaction categories.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range TransactionCategories() {
		if c == valid {
			return c, nil
		}
	}
	return "", ValidationError{Field: "category", Reason: "unknown category " + s}
}

// IsBudgetCategory reports whether c carries a budget allocation.
func (c Category) IsBudgetCategory() bool {
	for _, valid := range budgetCategories {
		if c == valid {
			return true
		}
	}
	return false
}

// Title renders the category for display ("housing" -> "Housing").
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p Period) Validate() error {
	switch p {
	case Weekly, Monthly, Annual:
		return nil
	}
	return ValidationError{Field: "period", Reason: "unknown period " + string(p)}
}

// Divisor returns the income divisor a period selects for category
// allocations: 52, 12 or 1. The budget overview intentionally uses a
// different weekly divisor; see the menu layer.
func (p Period) Divisor() decimal.Decimal {
	switch p {
	case Weekly:
		return decimal.NewFromInt(52)
	case Monthly:
		return decimal.NewFromInt(12)
	default:
		return decimal.NewFromInt(1)
	}
}

// ParseDate parses a YYYY-MM-DD transaction date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ValidationError{Field: "date", Reason: "use YYYY-MM-DD"}
	}
	return t, nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ValidationError{Field: "name", Reason: "empty name"}
	}
	if !strings.Contains(p.Email, "@") {
		return ValidationError{Field: "email", Reason: "invalid email"}
	}
	return nil
}
