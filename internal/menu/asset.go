package menu

import (
	"context"
	"fmt"

	"finman/internal/asset"
	"finman/internal/core"
)

func (m *Menu) assetMenu(ctx context.Context, assets *asset.Ledger) {
	for {
		m.printf("\nAssets\n1. View assets\n2. Add an asset\n3. Edit or delete an asset\n4. Return to main menu\n")
		choice, ok := m.promptChoice("Choose an option: ", 4)
		if !ok || choice == 4 {
			return
		}
		switch choice {
		case 1:
			m.listAssets(ctx, assets)
		case 2:
			m.addAsset(ctx, assets)
		case 3:
			m.editOrDeleteAsset(ctx, assets)
		}
	}
}

func (m *Menu) listAssets(ctx context.Context, assets *asset.Ledger) []asset.Asset {
	list, err := assets.List(ctx)
	if err != nil {
		m.printf("Could not load assets: %v\n", err)
		return nil
	}
	if len(list) == 0 {
		m.printf("You have no assets yet.\n")
		return nil
	}
	m.printf("\nYour assets:\n")
	for i, a := range list {
		marker := ""
		if a.Default {
			marker = " (default)"
		}
		m.printf("%d. %s [%s] %s%s\n", i+1, a.Name, a.Type, core.FormatUSD(a.Value), marker)
	}
	return list
}

func (m *Menu) addAsset(ctx context.Context, assets *asset.Ledger) {
	name, ok := m.promptText("Asset name: ")
	if !ok {
		return
	}
	assetType, ok := m.promptText("Asset type (e.g. checking, savings, brokerage): ")
	if !ok {
		return
	}
	value, ok := m.promptNonNegative("Current value: $")
	if !ok {
		return
	}
	isDefault, ok := m.confirm("Use this asset as the default for transactions? (y/n) ")
	if !ok {
		return
	}

	a, err := assets.Create(ctx, name, assetType, value, isDefault)
	if err != nil {
		m.printf("Could not add asset: %v\n", err)
		return
	}
	m.printf("Added %s with a balance of %s.\n", a.Name, core.FormatUSD(a.Value))
}

func (m *Menu) editOrDeleteAsset(ctx context.Context, assets *asset.Ledger) {
	list := m.listAssets(ctx, assets)
	if len(list) == 0 {
		return
	}
	m.printf("0. Cancel\n")
	idx, ok := m.promptIndex("Choose an asset: ", len(list))
	if !ok {
		return
	}
	a := list[idx-1]

	m.printf("1. Edit\n2. Delete\n3. Cancel\n")
	choice, ok := m.promptChoice("Choose an option: ", 3)
	if !ok || choice == 3 {
		return
	}

	if choice == 2 {
		yes, ok := m.confirm(fmt.Sprintf("Delete %s? (y/n) ", a.Name))
		if !ok || !yes {
			return
		}
		if err := assets.Delete(ctx, a.ID); err != nil {
			m.printf("Could not delete asset: %v\n", err)
			return
		}
		m.printf("Asset deleted.\n")
		return
	}

	m.editAsset(ctx, assets, a)
}

// editAsset re-prompts every field; an empty line keeps the current
// value.
func (m *Menu) editAsset(ctx context.Context, assets *asset.Ledger, a asset.Asset) {
	name, ok := m.readLine(fmt.Sprintf("Name [%s]: ", a.Name))
	if !ok {
		return
	}
	if name != "" {
		a.Name = name
	}

	assetType, ok := m.readLine(fmt.Sprintf("Type [%s]: ", a.Type))
	if !ok {
		return
	}
	if assetType != "" {
		a.Type = assetType
	}

	raw, ok := m.readLine(fmt.Sprintf("Value [%s]: $", core.FormatUSD(a.Value)))
	if !ok {
		return
	}
	if raw != "" {
		v, err := core.ParseNonNegative(raw)
		if err != nil {
			m.printf("Please enter a valid non-negative amount. The asset was not changed.\n")
			return
		}
		a.Value = v
	}

	isDefault, ok := m.confirm("Use this asset as the default for transactions? (y/n) ")
	if !ok {
		return
	}
	a.Default = isDefault

	if err := assets.Update(ctx, a); err != nil {
		m.printf("Could not update asset: %v\n", err)
		return
	}
	m.printf("Asset updated.\n")
}
