package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "plain integer", raw: "12500", expected: "12500"},
		{name: "plain decimal", raw: "12500.75", expected: "12500.75"},
		{name: "turkish thousands and decimal", raw: "12.500,75", expected: "12500.75"},
		{name: "comma as decimal separator", raw: "9750,50", expected: "9750.5"},
		{name: "currency symbol and spaces", raw: "₺ 9.750,00", expected: "9750"},
		{name: "TL suffix", raw: "12500 TL", expected: "12500"},
		{name: "signed amount passes through", raw: "-150,25", expected: "-150.25"},
		{name: "empty string", raw: "", expected: "0"},
		{name: "whitespace only", raw: "   ", expected: "0"},
		{name: "pure garbage", raw: "bilinmiyor", expected: "0"},
		{name: "lone minus", raw: "-", expected: "0"},
		{name: "multiple commas is unparsable", raw: "1,234,567", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"Parse(%q) = %s, want %s", tt.raw, got, tt.expected)
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	for _, raw := range []string{"..,,..", "--", ".,", "₺₺₺", "1.2.3,4,5"} {
		assert.NotPanics(t, func() { Parse(raw) }, "input %q", raw)
	}
}

func TestCanonicalIsIdempotent(t *testing.T) {
	inputs := []string{"12.500,75", "9750,50", "₺ 1.000", "0", "", "abc", "-150,25", "42"}

	for _, raw := range inputs {
		canonical := Canonical(raw)
		assert.True(t, Parse(canonical).Equal(Parse(raw)),
			"Parse(Canonical(%q)) != Parse(%q)", raw, raw)
	}
}

func TestParseAny(t *testing.T) {
	assert.True(t, ParseAny(nil).IsZero())
	assert.True(t, ParseAny(12500).Equal(decimal.NewFromInt(12500)))
	assert.True(t, ParseAny(int64(42)).Equal(decimal.NewFromInt(42)))
	assert.True(t, ParseAny(125.5).Equal(decimal.NewFromFloat(125.5)))
	assert.True(t, ParseAny("12.500,75").Equal(decimal.RequireFromString("12500.75")))
	assert.True(t, ParseAny(json.Number("9750.5")).Equal(decimal.RequireFromString("9750.5")))
	assert.True(t, ParseAny(struct{}{}).IsZero())
}
