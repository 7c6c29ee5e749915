package store

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Document is a schemaless field map. Numeric fields may round-trip through
// JSON, so readers go through the typed accessors below rather than direct
// assertions.
type Document map[string]any

// Clone returns a shallow copy safe to hand across the store boundary.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge overwrites d's fields with those in partial.
func (d Document) Merge(partial Document) {
	for k, v := range partial {
		d[k] = v
	}
}

// String returns the field as a string, or "" when absent or non-string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Decimal returns the field as a decimal, tolerating the numeric types a
// JSON or in-memory round trip can produce. Absent or unreadable fields
// yield zero.
func (d Document) Decimal(key string) decimal.Decimal {
	switch v := d[key].(type) {
	case decimal.Decimal:
		return v
	case json.Number:
		if dec, err := decimal.NewFromString(v.String()); err == nil {
			return dec
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case string:
		if dec, err := decimal.NewFromString(v); err == nil {
			return dec
		}
	}
	return decimal.Zero
}

// Match reports whether the document satisfies every equality filter.
func Match(d Document, filters Filters) bool {
	for key, want := range filters {
		if !equalField(d[key], want) {
			return false
		}
	}
	return true
}

func equalField(have, want any) bool {
	if hs, ok := have.(string); ok {
		ws, ok := want.(string)
		return ok && hs == ws
	}
	// Compare numerics through decimal so json.Number, float64 and
	// decimal.Decimal representations of the same value match.
	hd, hok := numeric(have)
	wd, wok := numeric(want)
	if hok && wok {
		return hd.Equal(wd)
	}
	return have == want
}

func numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	}
	return decimal.Zero, false
}
