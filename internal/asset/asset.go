// Package asset owns a user's named financial accounts. At most one asset
// per user carries the default flag; transaction deltas land on it.
package asset

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

// Asset is one financial account. Value may go negative through
// transaction deltas; direct edits require a non-negative value.
type Asset struct {
	ID      string
	Name    string
	Type    string
	Value   decimal.Decimal
	Default bool
}

// Picker selects an asset when no default exists, e.g. interactively.
// Returning false means no asset was chosen.
type Picker func(ctx context.Context, assets []Asset) (Asset, bool)

type Ledger struct {
	store  store.RecordStore
	logger *log.Logger
	userID string
}

func NewLedger(rs store.RecordStore, logger *log.Logger, userID string) *Ledger {
	return &Ledger{
		store:  rs,
		logger: logger.WithComponent(log.ComponentAsset),
		userID: userID,
	}
}

// List re-reads the user's assets from the store in its natural
// enumeration order. There is no caching between calls.
func (l *Ledger) List(ctx context.Context) ([]Asset, error) {
	recs, err := l.store.Query(ctx, store.Assets, store.Filters{"userId": l.userID})
	if err != nil {
		return nil, core.StoreError{Op: "list assets", Err: err}
	}
	assets := make([]Asset, len(recs))
	for i, rec := range recs {
		assets[i] = fromRecord(rec)
	}
	return assets, nil
}

func (l *Ledger) Create(ctx context.Context, name, assetType string, value decimal.Decimal, isDefault bool) (Asset, error) {
	a := Asset{Name: strings.TrimSpace(name), Type: strings.TrimSpace(assetType), Value: value, Default: isDefault}
	if err := l.validate(a); err != nil {
		return Asset{}, err
	}
	if isDefault {
		if err := l.clearDefaults(ctx); err != nil {
			return Asset{}, err
		}
	}
	id, err := l.store.Insert(ctx, store.Assets, l.toDocument(a))
	if err != nil {
		return Asset{}, core.StoreError{Op: "create asset", Err: err}
	}
	a.ID = id
	l.logger.InfoContext(ctx, "Added asset",
		log.FieldAssetName, a.Name, log.FieldValue, a.Value.StringFixed(2), "default", a.Default)
	return a, nil
}

// Update fully overwrites the asset record. The same default-clearing rule
// as Create applies.
func (l *Ledger) Update(ctx context.Context, a Asset) error {
	if a.ID == "" {
		return core.ValidationError{Field: "asset", Reason: "missing record id"}
	}
	if err := l.validate(a); err != nil {
		return err
	}
	if a.Default {
		if err := l.clearDefaults(ctx); err != nil {
			return err
		}
	}
	if err := l.store.SetByID(ctx, store.Assets, a.ID, l.toDocument(a)); err != nil {
		return core.StoreError{Op: "update asset", Err: err}
	}
	l.logger.InfoContext(ctx, "Updated asset", log.FieldAssetName, a.Name, log.FieldRecordID, a.ID)
	return nil
}

// Delete permanently removes the record. Confirmation happens in the
// presentation layer.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := l.store.DeleteByID(ctx, store.Assets, id); err != nil {
		if core.IsNotFound(err) {
			return err
		}
		return core.StoreError{Op: "delete asset", Err: err}
	}
	l.logger.InfoContext(ctx, "Deleted asset", log.FieldRecordID, id)
	return nil
}

// FindDefault re-queries the store for the user's current default asset.
// It never consults cached state; concurrent sessions make the result
// advisory at best.
func (l *Ledger) FindDefault(ctx context.Context) (Asset, error) {
	recs, err := l.store.Query(ctx, store.Assets, store.Filters{"userId": l.userID, "default": "Y"})
	if err != nil {
		return Asset{}, core.StoreError{Op: "find default asset", Err: err}
	}
	if len(recs) == 0 {
		return Asset{}, core.NotFoundError{Collection: store.Assets, What: "default asset"}
	}
	return fromRecord(recs[0]), nil
}

// ApplyTransactionDelta adjusts the default asset's value by a signed
// delta: +amount for income, -amount for anything else. When no default
// exists the picker chooses a target; with no pick the delta is not
// applied. The value update is a partial-field write, and a failure there
// leaves the delta un-applied.
func (l *Ledger) ApplyTransactionDelta(ctx context.Context, amount decimal.Decimal, category core.Category, pick Picker) (Asset, error) {
	target, err := l.FindDefault(ctx)
	if core.IsNotFound(err) {
		l.logger.WarnContext(ctx, "No default asset found, manual selection required")
		target, err = l.pickFallback(ctx, pick)
	}
	if err != nil {
		return Asset{}, err
	}

	delta := amount.Neg()
	if category == core.Income {
		delta = amount
	}
	newValue := target.Value.Add(delta)

	if newValue.Sign() < 0 {
		l.logger.WarnContext(ctx, "Asset balance going negative",
			log.FieldAssetName, target.Name, log.FieldValue, newValue.StringFixed(2))
	}

	if err := l.store.UpdateFields(ctx, store.Assets, target.ID, store.Document{"value": newValue}); err != nil {
		return Asset{}, core.StoreError{Op: "apply transaction delta", Err: err}
	}

	l.logger.InfoContext(ctx, "Applied transaction delta",
		log.FieldAssetName, target.Name,
		"old_value", target.Value.StringFixed(2),
		"new_value", newValue.StringFixed(2),
		log.FieldCategory, string(category))

	target.Value = newValue
	return target, nil
}

func (l *Ledger) pickFallback(ctx context.Context, pick Picker) (Asset, error) {
	if pick == nil {
		return Asset{}, core.ErrNoAssetSelected
	}
	assets, err := l.List(ctx)
	if err != nil {
		return Asset{}, err
	}
	if len(assets) == 0 {
		return Asset{}, core.ErrNoAssetSelected
	}
	chosen, ok := pick(ctx, assets)
	if !ok {
		return Asset{}, core.ErrNoAssetSelected
	}
	return chosen, nil
}

// clearDefaults removes the default flag from every asset of the user that
// carries it. Read-then-write per record; not atomic against concurrent
// sessions.
func (l *Ledger) clearDefaults(ctx context.Context) error {
	recs, err := l.store.Query(ctx, store.Assets, store.Filters{"userId": l.userID, "default": "Y"})
	if err != nil {
		return core.StoreError{Op: "clear default flags", Err: err}
	}
	for _, rec := range recs {
		doc := rec.Fields.Clone()
		doc["default"] = "N"
		if err := l.store.SetByID(ctx, store.Assets, rec.ID, doc); err != nil {
			return core.StoreError{Op: "clear default flags", Err: err}
		}
		l.logger.InfoContext(ctx, "Removed default flag",
			log.FieldAssetName, doc.String("name"))
	}
	return nil
}

func (l *Ledger) validate(a Asset) error {
	if a.Name == "" {
		return core.ValidationError{Field: "name", Reason: "empty name"}
	}
	if a.Value.Sign() < 0 {
		return core.ValidationError{Field: "value", Reason: "must be non-negative"}
	}
	return nil
}

func (l *Ledger) toDocument(a Asset) store.Document {
	flag := "N"
	if a.Default {
		flag = "Y"
	}
	return store.Document{
		"userId":  l.userID,
		"name":    a.Name,
		"type":    a.Type,
		"value":   a.Value,
		"default": flag,
	}
}

func fromRecord(rec store.Record) Asset {
	return Asset{
		ID:      rec.ID,
		Name:    rec.Fields.String("name"),
		Type:    rec.Fields.String("type"),
		Value:   rec.Fields.Decimal("value"),
		Default: rec.Fields.String("default") == "Y",
	}
}
