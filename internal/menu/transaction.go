package menu

import (
	"context"
	"errors"

	"finman/internal/asset"
	"finman/internal/core"
	"finman/internal/transaction"
)

func (m *Menu) transactionMenu(ctx context.Context, txns *transaction.Ledger) {
	for {
		m.printf("\nTransactions\n1. Add a transaction\n2. Edit or delete a transaction\n3. Weekly summary\n4. Monthly summary\n5. Annual summary\n6. List all transactions\n7. Return to main menu\n")
		choice, ok := m.promptChoice("Choose an option: ", 7)
		if !ok || choice == 7 {
			return
		}
		switch choice {
		case 1:
			m.addTransaction(ctx, txns)
		case 2:
			m.editOrDeleteTransaction(ctx, txns)
		case 3:
			m.showSummary(ctx, txns, core.Weekly)
		case 4:
			m.showSummary(ctx, txns, core.Monthly)
		case 5:
			m.showSummary(ctx, txns, core.Annual)
		case 6:
			m.listTransactions(ctx, txns)
		}
	}
}

func (m *Menu) addTransaction(ctx context.Context, txns *transaction.Ledger) {
	amount, ok := m.promptAmount("Amount: $")
	if !ok {
		return
	}
	cat, ok := m.pickCategory()
	if !ok {
		return
	}
	date, ok := m.promptDate("Date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	desc, ok := m.readLine("Description: ")
	if !ok {
		return
	}

	txn, delta, err := txns.Create(ctx, amount, cat, date, desc, m.assetPicker())
	if err != nil {
		m.printf("Could not add transaction: %v\n", err)
		return
	}
	m.printf("Added %s transaction of %s on %s.\n",
		txn.Category.Title(), core.FormatUSD(txn.Amount), txn.Date)
	m.reportDelta(delta)
}

func (m *Menu) editOrDeleteTransaction(ctx context.Context, txns *transaction.Ledger) {
	list, err := txns.List(ctx)
	if err != nil {
		m.printf("Could not load transactions: %v\n", err)
		return
	}
	if len(list) == 0 {
		m.printf("You have no transactions yet.\n")
		return
	}

	m.printf("\nYour transactions:\n")
	for i, t := range list {
		m.printf("%d. %s  %-12s %s  %s\n",
			i+1, t.Date, t.Category.Title(), core.FormatUSD(t.Amount), t.Description)
	}
	m.printf("0. Cancel\n")
	idx, ok := m.promptIndex("Choose a transaction: ", len(list))
	if !ok {
		return
	}
	txn := list[idx-1]

	m.printf("1. Edit\n2. Delete\n3. Cancel\n")
	choice, ok := m.promptChoice("Choose an option: ", 3)
	if !ok || choice == 3 {
		return
	}

	if choice == 2 {
		yes, ok := m.confirm("Deleting does not adjust any asset balance. Delete anyway? (y/n) ")
		if !ok || !yes {
			return
		}
		if err := txns.Delete(ctx, txn.ID); err != nil {
			m.printf("Could not delete transaction: %v\n", err)
			return
		}
		m.printf("Transaction deleted.\n")
		return
	}

	m.editTransaction(ctx, txns, txn)
}

func (m *Menu) editTransaction(ctx context.Context, txns *transaction.Ledger, existing transaction.Transaction) {
	m.printf("Editing the %s %s of %s.\n",
		existing.Date, existing.Category.Title(), core.FormatUSD(existing.Amount))

	amount, ok := m.promptAmount("New amount: $")
	if !ok {
		return
	}
	cat, ok := m.pickCategory()
	if !ok {
		return
	}
	date, ok := m.promptDate("New date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	desc, ok := m.readLine("New description: ")
	if !ok {
		return
	}

	updated, deltas, err := txns.Edit(ctx, existing, amount, cat, date, desc, m.assetPicker())
	if err != nil {
		m.printf("Could not update transaction: %v\n", err)
		return
	}
	m.printf("Updated to a %s transaction of %s on %s.\n",
		updated.Category.Title(), core.FormatUSD(updated.Amount), updated.Date)
	for _, d := range deltas {
		m.reportDelta(d)
	}
}

func (m *Menu) showSummary(ctx context.Context, txns *transaction.Ledger, period core.Period) {
	summary, err := txns.Summarize(ctx, period)
	if err != nil {
		m.printf("Could not build the summary: %v\n", err)
		return
	}
	if summary.IsEmpty() {
		m.printf("No transactions found for this period.\n")
		return
	}

	m.printf("\nYour %s totals:\n", period)
	for _, cat := range summary.Categories() {
		m.printf("%-12s %s\n", cat.Title(), core.FormatUSD(summary.Total(cat)))
	}

	yes, ok := m.confirm("Compare against your budget? (y/n) ")
	if !ok || !yes {
		return
	}
	for _, c := range txns.CompareToBudget(summary) {
		if !c.HasBudget {
			m.printf("%-12s spent %s (no budget for this category)\n",
				c.Category.Title(), core.FormatUSD(c.Spent))
			continue
		}
		status := "under budget"
		if c.Over {
			status = "over budget"
		}
		m.printf("%-12s spent %s of %s (%s)\n",
			c.Category.Title(), core.FormatUSD(c.Spent), core.FormatUSD(c.Budgeted), status)
	}
}

func (m *Menu) listTransactions(ctx context.Context, txns *transaction.Ledger) {
	list, err := txns.List(ctx)
	if err != nil {
		m.printf("Could not load transactions: %v\n", err)
		return
	}
	if len(list) == 0 {
		m.printf("You have no transactions yet.\n")
		return
	}
	m.printf("\nYour transactions:\n")
	for _, t := range list {
		m.printf("%s  %-12s %s  %s\n",
			t.Date, t.Category.Title(), core.FormatUSD(t.Amount), t.Description)
	}
}

// pickCategory lists the twelve transaction categories, 0 to cancel.
func (m *Menu) pickCategory() (core.Category, bool) {
	cats := core.TransactionCategories()
	m.printf("Category:\n")
	for i, cat := range cats {
		m.printf("%d. %s\n", i+1, cat.Title())
	}
	m.printf("0. Cancel\n")
	idx, ok := m.promptIndex("Choose a category: ", len(cats))
	if !ok {
		return "", false
	}
	return cats[idx-1], true
}

// assetPicker is the interactive fallback used when no default asset is
// flagged. Choosing 0 skips the balance update.
func (m *Menu) assetPicker() asset.Picker {
	return func(ctx context.Context, candidates []asset.Asset) (asset.Asset, bool) {
		m.printf("No default asset is set. Which asset should this apply to?\n")
		for i, a := range candidates {
			m.printf("%d. %s (%s)\n", i+1, a.Name, core.FormatUSD(a.Value))
		}
		m.printf("0. Skip\n")
		idx, ok := m.promptIndex("Choose an asset: ", len(candidates))
		if !ok {
			return asset.Asset{}, false
		}
		return candidates[idx-1], true
	}
}

func (m *Menu) reportDelta(delta transaction.DeltaResult) {
	switch {
	case delta.Applied:
		m.printf("%s balance is now %s.\n", delta.Asset.Name, core.FormatUSD(delta.Asset.Value))
	case errors.Is(delta.Err, core.ErrNoAssetSelected):
		m.printf("No asset was selected; balances were left unchanged.\n")
	case delta.Err != nil:
		m.printf("The balance update failed: %v\n", delta.Err)
	}
}
