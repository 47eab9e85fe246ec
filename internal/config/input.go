package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/retirewise/planner/internal/domain"
)

// InputParser handles parsing of scenario and rate-set files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadScenario loads a scenario from a YAML file and validates it.
func (ip *InputParser) LoadScenario(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.Expenses.SortOverrides()
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	return &scenario, nil
}

// LoadRateSet loads a rate set from a YAML file and validates it. Pass an
// empty filename to get the built-in default rates.
func (ip *InputParser) LoadRateSet(filename string) (*domain.RateSet, error) {
	if filename == "" {
		return DefaultRateSet(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var rates domain.RateSet
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("rate set validation failed: %w", err)
	}

	return &rates, nil
}

// CreateExampleScenario builds a complete starter scenario suitable for
// writing out as a template.
func CreateExampleScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "Example Retirement Plan",
		BasicInputs: domain.BasicInputs{
			CurrentAge:        55,
			RetirementAge:     62,
			LifeExpectancyAge: 92,
			Province:          "ON",
		},
		Assets: domain.Assets{
			TaxDeferred: domain.Account{
				Balance:            decimal.NewFromInt(450000),
				AnnualContribution: decimal.NewFromInt(18000),
			},
			TaxFree: domain.Account{
				Balance:            decimal.NewFromInt(95000),
				AnnualContribution: decimal.NewFromInt(7000),
			},
			NonRegistered: domain.Account{
				Balance:            decimal.NewFromInt(120000),
				AnnualContribution: decimal.NewFromInt(6000),
				ReturnRate:         decimal.NewFromFloat(0.045),
			},
		},
		IncomeSources: domain.IncomeSources{
			CPP: domain.BenefitElection{
				StartAge:      65,
				MonthlyAmount: decimal.NewFromFloat(1150.00),
			},
			OAS: domain.BenefitElection{
				StartAge:      65,
				MonthlyAmount: decimal.NewFromFloat(727.67),
			},
		},
		Expenses: domain.Expenses{
			FixedMonthly:       decimal.NewFromInt(4200),
			VariableAnnual:     decimal.NewFromInt(8000),
			IndexedToInflation: true,
			Overrides: []domain.ExpenseOverride{
				{Age: 75, MonthlyAmount: decimal.NewFromInt(3600)},
				{Age: 85, MonthlyAmount: decimal.NewFromInt(3000)},
			},
		},
		Assumptions: domain.Assumptions{
			PreRetirementReturn:  decimal.NewFromFloat(0.06),
			PostRetirementReturn: decimal.NewFromFloat(0.045),
			InflationRate:        decimal.NewFromFloat(0.021),
		},
	}
}

// WriteExampleScenario writes the example scenario as YAML to the given path.
func WriteExampleScenario(filename string) error {
	data, err := yaml.Marshal(CreateExampleScenario())
	if err != nil {
		return fmt.Errorf("failed to marshal example scenario: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
