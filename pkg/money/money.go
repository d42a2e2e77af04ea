// Package money parses monetary values coming from human-entered CRM fields.
//
// Upstream data mixes formats freely: "12.500,00", "12500.00", "12,500",
// "₺ 9.750", plain numbers and empty strings. Parsing is best-effort and never
// fails: any input that cannot be understood is worth zero, so aggregate sums
// only lose the one dirty record instead of aborting a whole report.
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a raw monetary string into a decimal amount.
//
// Rules:
//   - everything except digits, comma, period and minus is stripped
//   - both "," and "." present: "." is a thousands separator, "," is decimal
//   - only "," present: it is the decimal separator
//   - empty or unparsable input yields zero
func Parse(raw string) decimal.Decimal {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}

	hasComma := strings.Contains(cleaned, ",")
	hasPeriod := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasPeriod:
		// Turkish style: 12.500,75 -> 12500.75
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}

	return value
}

// ParseAny accepts the loosely typed values found in JSON payloads and legacy
// columns: numbers, numeric strings, json.Number or nil.
func ParseAny(v any) decimal.Decimal {
	switch value := v.(type) {
	case nil:
		return decimal.Zero
	case string:
		return Parse(value)
	case float64:
		return decimal.NewFromFloat(value)
	case float32:
		return decimal.NewFromFloat32(value)
	case int:
		return decimal.NewFromInt(int64(value))
	case int64:
		return decimal.NewFromInt(value)
	case json.Number:
		return Parse(value.String())
	case decimal.Decimal:
		return value
	default:
		return decimal.Zero
	}
}

// Canonical returns the canonical string form of a raw monetary value.
// Parsing the canonical form always yields the same amount as parsing the
// original input.
func Canonical(raw string) string {
	return Parse(raw).String()
}

func stripNonNumeric(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
