package menu

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"finman/internal/budget"
	"finman/internal/core"
	"finman/internal/log"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// budgetMenu shows the overview and loops over budget actions.
func (m *Menu) budgetMenu(ctx context.Context, e *budget.Engine) {
	for {
		referenceIncome := m.printBudgetOverview(e)
		m.printf("\n1. Change budget by percentage\n2. Change budget by amount\n3. Change annual income\n4. Return to main menu\n")
		choice, ok := m.promptChoice("Choose an option: ", 4)
		if !ok || choice == 4 {
			return
		}
		switch choice {
		case 1:
			m.editBudgetByPercentage(ctx, e)
		case 2:
			m.editBudgetByAmount(ctx, e, referenceIncome)
		case 3:
			income, ok := m.promptNonNegative("What is your annual income? $")
			if !ok {
				return
			}
			if err := e.SetAnnualIncome(ctx, income); err != nil {
				m.printf("Could not save income: %v\n", err)
			} else {
				m.printf("Annual income updated to %s.\n", core.FormatUSD(income))
			}
		}
	}
}

// printBudgetOverview renders the budget and returns the income figure
// the amounts are prorated from. The figure is labelled weekly but is
// the annual income divided by 12; amount edits use the same figure so
// the display and the conversion stay consistent with each other.
func (m *Menu) printBudgetOverview(e *budget.Engine) decimal.Decimal {
	weeklyIncome := e.AnnualIncome().Div(twelve)
	m.printf("\nYour Budget\n")
	m.printf("Avg Weekly Income: %s\n", core.FormatUSD(weeklyIncome))
	for _, cat := range core.BudgetCategories() {
		pct := e.Percentage(cat)
		amount := weeklyIncome.Mul(pct).Div(hundred)
		m.printf("%-12s %6s%%  %s\n", cat.Title(), pct.StringFixed(2), core.FormatUSD(amount))
	}
	return weeklyIncome
}

func (m *Menu) editBudgetByPercentage(ctx context.Context, e *budget.Engine) {
	cats := core.BudgetCategories()
	for {
		m.printf("\nWhich category do you want to change?\n")
		for i, cat := range cats {
			m.printf("%d. %s (%s%%)\n", i+1, cat.Title(), e.Percentage(cat).StringFixed(2))
		}
		m.printf("0. Done\n")
		idx, ok := m.promptIndex("Choose a category: ", len(cats))
		if !ok {
			break
		}
		cat := cats[idx-1]

		pct, ok := m.promptNonNegative(fmt.Sprintf("New percentage for %s: ", cat.Title()))
		if !ok {
			break
		}
		if err := e.SetPercentage(cat, pct); err != nil {
			m.printf("%v\n", err)
			continue
		}
		m.printf("%s is now %s%%. Categories total %s%%.\n",
			cat.Title(), pct.StringFixed(2), e.Total().StringFixed(2))
	}
	m.commitBudget(ctx, e)
}

func (m *Menu) editBudgetByAmount(ctx context.Context, e *budget.Engine, referenceIncome decimal.Decimal) {
	cats := core.BudgetCategories()
	for {
		m.printf("\nWhich category do you want to change?\n")
		for i, cat := range cats {
			amount := referenceIncome.Mul(e.Percentage(cat)).Div(hundred)
			m.printf("%d. %s (%s)\n", i+1, cat.Title(), core.FormatUSD(amount))
		}
		m.printf("0. Done\n")
		idx, ok := m.promptIndex("Choose a category: ", len(cats))
		if !ok {
			break
		}
		cat := cats[idx-1]

		amount, ok := m.promptNonNegative(fmt.Sprintf("New amount for %s: $", cat.Title()))
		if !ok {
			break
		}
		if err := e.SetAmount(cat, amount, referenceIncome); err != nil {
			m.printf("%v\n", err)
			continue
		}
		m.printf("%s is now %s%%. Categories total %s%%.\n",
			cat.Title(), e.Percentage(cat).StringFixed(2), e.Total().StringFixed(2))
	}
	m.commitBudget(ctx, e)
}

// commitBudget persists an edit session if the total validates,
// otherwise discards it so the saved budget stays authoritative.
func (m *Menu) commitBudget(ctx context.Context, e *budget.Engine) {
	err := e.Commit(ctx)
	if err == nil {
		m.printf("All category percentages total 100%%. Changes saved!\n")
		return
	}
	if core.IsValidation(err) {
		m.printf("Percentages total %s%%, not 100%%. Changes were not saved.\n", e.Total().StringFixed(2))
	} else {
		m.printf("Could not save budget: %v\n", err)
	}
	if rerr := e.Reload(ctx); rerr != nil {
		m.logger.WarnContext(ctx, "Could not reload budget", log.FieldError, rerr)
	}
}
