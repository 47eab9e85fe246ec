package output

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retirewise/planner/internal/domain"
)

func sampleResults() *domain.CalculationResults {
	depleted := 88
	return &domain.CalculationResults{
		ScenarioName: "sample",
		Years: []domain.YearlyProjection{
			{
				Age:                64,
				OpeningTaxDeferred: decimal.NewFromInt(400000),
				ClosingTaxDeferred: decimal.NewFromInt(390000),
				Expenses:           decimal.NewFromInt(36000),
				TaxPaid:            decimal.NewFromFloat(4512.50),
				Retired:            true,
				FullyFunded:        true,
			},
			{
				Age:                65,
				Retired:            true,
				CPPIncome:          decimal.NewFromInt(9096),
				OASIncome:          decimal.NewFromFloat(8732.04),
				Expenses:           decimal.NewFromInt(36720),
				Shortfall:          decimal.NewFromInt(1200),
				ClosingTaxDeferred: decimal.NewFromInt(370000),
			},
		},
		FinalPortfolioValue:   decimal.NewFromInt(370000),
		DepletionAge:          &depleted,
		TotalLifetimeTax:      decimal.NewFromInt(91000),
		TotalLifetimeBenefits: decimal.NewFromInt(212000),
	}
}

func TestFormatterRegistry(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		f := GetFormatterByName(name)
		require.NotNil(t, f, "formatter %s not registered", name)
		assert.Equal(t, name, f.Name())
	}

	assert.Nil(t, GetFormatterByName("pdf"))
	assert.Equal(t, "console", NormalizeFormatName("  TABLE "))
	assert.Equal(t, "json", NormalizeFormatName("json-pretty"))

	f := GetFormatterByName("TEXT")
	require.NotNil(t, f)
	assert.Equal(t, "console", f.Name())
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleResults())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "RETIREMENT PROJECTION: sample")
	assert.Contains(t, text, "age 88")
	assert.Contains(t, text, "$370000.00")
	assert.Contains(t, text, "64")
}

func TestCSVFormatter(t *testing.T) {
	data, err := CSVFormatter{}.Format(sampleResults())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per year")

	assert.Equal(t, "Age", records[0][0])
	assert.Equal(t, "64", records[1][0])
	assert.Equal(t, "65", records[2][0])
	assert.Equal(t, "9096.00", records[2][5])
}

func TestJSONFormatter(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleResults())
	require.NoError(t, err)

	var decoded domain.CalculationResults
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "sample", decoded.ScenarioName)
	require.Len(t, decoded.Years, 2)
	assert.Equal(t, 65, decoded.Years[1].Age)
	require.NotNil(t, decoded.DepletionAge)
	assert.Equal(t, 88, *decoded.DepletionAge)
	assert.True(t, decoded.FinalPortfolioValue.Equal(decimal.NewFromInt(370000)))
}
