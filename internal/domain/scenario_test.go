package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validScenario() *Scenario {
	return &Scenario{
		Name: "valid",
		BasicInputs: BasicInputs{
			CurrentAge:        55,
			RetirementAge:     63,
			LifeExpectancyAge: 92,
			Province:          "ON",
		},
		Assets: Assets{
			TaxDeferred: Account{Balance: decimal.NewFromInt(300000)},
			TaxFree:     Account{Balance: decimal.NewFromInt(50000)},
		},
		IncomeSources: IncomeSources{
			CPP: BenefitElection{StartAge: 65, MonthlyAmount: decimal.NewFromInt(1100)},
			OAS: BenefitElection{StartAge: 65, MonthlyAmount: decimal.NewFromInt(700)},
		},
		Expenses: Expenses{
			FixedMonthly:       decimal.NewFromInt(4000),
			IndexedToInflation: true,
		},
		Assumptions: Assumptions{
			PreRetirementReturn:  decimal.NewFromFloat(0.06),
			PostRetirementReturn: decimal.NewFromFloat(0.04),
			InflationRate:        decimal.NewFromFloat(0.02),
		},
	}
}

func TestScenarioValidate(t *testing.T) {
	assert.NoError(t, validScenario().Validate())

	tests := []struct {
		name   string
		mutate func(*Scenario)
		field  string
	}{
		{
			name:   "retirement before current age",
			mutate: func(s *Scenario) { s.BasicInputs.RetirementAge = 50 },
			field:  "basic_inputs.retirement_age",
		},
		{
			name:   "life expectancy before retirement",
			mutate: func(s *Scenario) { s.BasicInputs.LifeExpectancyAge = 60 },
			field:  "basic_inputs.life_expectancy_age",
		},
		{
			name:   "missing province",
			mutate: func(s *Scenario) { s.BasicInputs.Province = "" },
			field:  "basic_inputs.province",
		},
		{
			name:   "negative balance",
			mutate: func(s *Scenario) { s.Assets.TaxFree.Balance = decimal.NewFromInt(-1) },
			field:  "assets.tax_free.balance",
		},
		{
			name:   "negative benefit amount",
			mutate: func(s *Scenario) { s.IncomeSources.OAS.MonthlyAmount = decimal.NewFromInt(-5) },
			field:  "income_sources.oas.monthly_amount",
		},
		{
			name:   "negative expenses",
			mutate: func(s *Scenario) { s.Expenses.FixedMonthly = decimal.NewFromInt(-100) },
			field:  "expenses.fixed_monthly",
		},
		{
			name: "duplicate override ages",
			mutate: func(s *Scenario) {
				s.Expenses.Overrides = []ExpenseOverride{
					{Age: 70, MonthlyAmount: decimal.NewFromInt(3000)},
					{Age: 70, MonthlyAmount: decimal.NewFromInt(2000)},
				}
			},
			field: "expenses.overrides",
		},
		{
			name:   "absurd inflation",
			mutate: func(s *Scenario) { s.Assumptions.InflationRate = decimal.NewFromFloat(0.5) },
			field:  "assumptions.inflation_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestScenarioClone(t *testing.T) {
	original := validScenario()
	original.Expenses.Overrides = []ExpenseOverride{
		{Age: 75, MonthlyAmount: decimal.NewFromInt(3000)},
	}

	clone := original.Clone()
	clone.BasicInputs.RetirementAge = 60
	clone.Expenses.Overrides[0].Age = 80
	clone.Expenses.Overrides = append(clone.Expenses.Overrides, ExpenseOverride{Age: 85})

	assert.Equal(t, 63, original.BasicInputs.RetirementAge)
	require.Len(t, original.Expenses.Overrides, 1)
	assert.Equal(t, 75, original.Expenses.Overrides[0].Age)
}

func TestExpenseOverrideLookup(t *testing.T) {
	e := Expenses{
		Overrides: []ExpenseOverride{
			{Age: 80, MonthlyAmount: decimal.NewFromInt(2000)},
			{Age: 70, MonthlyAmount: decimal.NewFromInt(3000)},
		},
	}
	e.SortOverrides()

	assert.Nil(t, e.ActiveOverride(69))
	require.NotNil(t, e.ActiveOverride(70))
	assert.True(t, e.ActiveOverride(75).MonthlyAmount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, e.ActiveOverride(85).MonthlyAmount.Equal(decimal.NewFromInt(2000)))
}

func TestProjectionYears(t *testing.T) {
	b := BasicInputs{CurrentAge: 58, RetirementAge: 62, LifeExpectancyAge: 90}
	assert.Equal(t, 33, b.ProjectionYears())
}

func TestScenarioYAMLRoundTrip(t *testing.T) {
	original := validScenario()
	original.Assets.NonRegistered = Account{
		Balance:    decimal.NewFromFloat(12345.67),
		ReturnRate: decimal.NewFromFloat(0.035),
	}
	original.Expenses.Overrides = []ExpenseOverride{
		{Age: 75, MonthlyAmount: decimal.NewFromFloat(3100.50)},
	}

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded Scenario
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, original.BasicInputs, decoded.BasicInputs)
	assert.True(t, decoded.Assets.NonRegistered.Balance.Equal(original.Assets.NonRegistered.Balance))
	assert.True(t, decoded.Assets.NonRegistered.ReturnRate.Equal(original.Assets.NonRegistered.ReturnRate))
	assert.True(t, decoded.Assumptions.InflationRate.Equal(original.Assumptions.InflationRate))
	require.Len(t, decoded.Expenses.Overrides, 1)
	assert.True(t, decoded.Expenses.Overrides[0].MonthlyAmount.Equal(original.Expenses.Overrides[0].MonthlyAmount))
}

func TestScenarioYAMLNumericScalars(t *testing.T) {
	// Scenario files commonly write plain numbers; they must parse the same
	// as quoted strings.
	src := `
name: numeric
basic_inputs:
  current_age: 58
  retirement_age: 62
  life_expectancy_age: 90
  province: ON
assets:
  tax_deferred:
    balance: 500000
    annual_contribution: 12000.50
expenses:
  fixed_monthly: 2500
assumptions:
  pre_retirement_return: 0.06
  post_retirement_return: 0.04
  inflation_rate: 0.02
`
	var s Scenario
	require.NoError(t, yaml.Unmarshal([]byte(src), &s))
	require.NoError(t, s.Validate())

	assert.True(t, s.Assets.TaxDeferred.Balance.Equal(decimal.NewFromInt(500000)))
	assert.True(t, s.Assets.TaxDeferred.AnnualContribution.Equal(decimal.NewFromFloat(12000.50)))
	assert.True(t, s.Assumptions.PreRetirementReturn.Equal(decimal.NewFromFloat(0.06)))
	assert.True(t, s.Assets.TaxFree.Balance.IsZero())
}
