package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retirewise/planner/internal/config"
	"github.com/retirewise/planner/internal/domain"
)

func TestTaxCalculatorProgressive(t *testing.T) {
	tc, err := NewTaxCalculator(config.DefaultRateSet(), "ON")
	require.NoError(t, err)

	tests := []struct {
		name     string
		income   decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "zero income",
			income:   decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "negative income",
			income:   decimal.NewFromInt(-5000),
			expected: decimal.Zero,
		},
		{
			name:   "income inside first brackets",
			income: decimal.NewFromInt(40000),
			// 40000 * (0.15 + 0.0505)
			expected: decimal.NewFromInt(8020),
		},
		{
			name:   "income spanning second federal bracket",
			income: decimal.NewFromInt(100000),
			// federal: 57375*0.15 + 42625*0.205 = 8606.25 + 8738.125
			// ontario: 52886*0.0505 + 47114*0.0915 = 2670.743 + 4310.931
			expected: decimal.NewFromFloat(24326.049),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := tc.Calculate(tt.income)
			diff := tax.Sub(tt.expected).Abs()
			assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)),
				"expected %s, got %s", tt.expected.StringFixed(2), tax.StringFixed(2))
		})
	}
}

func TestTaxCalculatorBracketBoundary(t *testing.T) {
	rates := config.DefaultRateSet()
	_, err := NewTaxCalculator(rates, "ON")
	require.NoError(t, err)

	// Income exactly at a bracket's upper limit must tax identically to a
	// schedule truncated at that bracket.
	boundary := rates.FederalBrackets[0].UpTo
	full := applyBrackets(boundary, rates.FederalBrackets)
	truncated := applyBrackets(boundary, rates.FederalBrackets[:1])
	assert.True(t, full.Equal(truncated),
		"boundary income double counted: full %s vs truncated %s", full, truncated)

	// One dollar over the boundary is taxed at the next bracket's rate.
	over := applyBrackets(boundary.Add(decimal.NewFromInt(1)), rates.FederalBrackets)
	assert.True(t, over.Sub(full).Equal(rates.FederalBrackets[1].Rate))
}

func TestTaxCalculatorUnknownProvince(t *testing.T) {
	_, err := NewTaxCalculator(config.DefaultRateSet(), "XX")
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTaxCalculatorRates(t *testing.T) {
	tc, err := NewTaxCalculator(config.DefaultRateSet(), "ON")
	require.NoError(t, err)

	income := decimal.NewFromInt(60000)

	effective := tc.EffectiveRate(income)
	marginal := tc.MarginalRate(income)
	assert.True(t, effective.LessThan(marginal), "effective rate should sit below marginal")
	// 60000 is in the second federal (20.5%) and second Ontario (9.15%) brackets.
	assert.True(t, marginal.Equal(decimal.NewFromFloat(0.2965)))

	assert.True(t, tc.EffectiveRate(decimal.Zero).IsZero())
}

func TestBracketValidation(t *testing.T) {
	tests := []struct {
		name     string
		brackets []domain.TaxBracket
	}{
		{
			name:     "empty schedule",
			brackets: nil,
		},
		{
			name: "bounded top bracket",
			brackets: []domain.TaxBracket{
				{UpTo: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.15)},
			},
		},
		{
			name: "non-ascending bounds",
			brackets: []domain.TaxBracket{
				{UpTo: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.15)},
				{UpTo: decimal.NewFromInt(40000), Rate: decimal.NewFromFloat(0.20)},
				{Rate: decimal.NewFromFloat(0.30)},
			},
		},
		{
			name: "unbounded bracket not last",
			brackets: []domain.TaxBracket{
				{Rate: decimal.NewFromFloat(0.15)},
				{UpTo: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.20)},
			},
		},
		{
			name: "decreasing rates",
			brackets: []domain.TaxBracket{
				{UpTo: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.30)},
				{UpTo: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.15)},
				{Rate: decimal.NewFromFloat(0.10)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := config.DefaultRateSet()
			rates.FederalBrackets = tt.brackets
			err := rates.Validate()
			require.Error(t, err)

			var cfgErr *domain.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
