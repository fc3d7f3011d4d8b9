// Package normalize maps loosely-shaped upstream report records into
// canonical domain models.
//
// Upstream producers emit different field names for the same value
// depending on version (gross vs total_gross, date vs day vs ds) —
// either variant, never both consistently. Each canonical field
// therefore has an ordered synonym chain; the first present, non-nil,
// coercible key wins. The declared order is a contract and must not
// change silently.
//
// All functions are total: arbitrary malformed input yields a
// default-filled record, never an error or a panic.
package normalize

import (
	"encoding/json"
	"strconv"
)

// Record is a loosely-shaped upstream record as decoded from JSON.
type Record = map[string]any

// Synonym chains per canonical field. Order is the resolution contract.
var (
	grossKeys = []string{"gross", "total_gross"}
	netKeys   = []string{"net", "total_net"}
	vatKeys   = []string{"vat", "total_vat"}
	cardKeys  = []string{"card", "card_gross"}
	cashKeys  = []string{"cash", "cash_gross"}

	// card_share_pct exists upstream but is a percentage, not a share;
	// it is deliberately not in this chain.
	cardShareKeys = []string{"card_share"}

	dateKeys = []string{"date", "day", "ds"}
	rateKeys = []string{"rate", "vat_rate"}

	salesCardKeys = []string{"sales_card", "card", "card_gross"}
	bankTPAKeys   = []string{"bank_tpa", "tpa"}
	feesKeys      = []string{"fees"}
	deltaKeys     = []string{"delta"}

	productKeys  = []string{"product"}
	customerKeys = []string{"customer"}
)

// number resolves the first coercible key in the chain, or def.
// A present but non-numeric value counts as absent.
func number(rec Record, def float64, keys []string) float64 {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			if f, ok := coerceNumber(v); ok {
				return f
			}
		}
	}
	return def
}

// optNumber is like number but preserves absence instead of defaulting.
func optNumber(rec Record, keys []string) *float64 {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			if f, ok := coerceNumber(v); ok {
				return &f
			}
		}
	}
	return nil
}

// str resolves the first key whose value converts to a non-empty
// string, or def.
func str(rec Record, def string, keys []string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return def
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// asRecord filters non-object elements out of upstream arrays.
func asRecord(v any) (Record, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}
