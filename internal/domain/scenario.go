package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BasicInputs describes the household timeline and tax jurisdiction.
type BasicInputs struct {
	CurrentAge        int    `yaml:"current_age" json:"current_age"`
	RetirementAge     int    `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancyAge int    `yaml:"life_expectancy_age" json:"life_expectancy_age"`
	Province          string `yaml:"province" json:"province"`
}

// Account is a single investment account. ReturnRate, when nonzero, overrides
// the phase return rate from Assumptions for this account.
type Account struct {
	Balance            decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annual_contribution"`
	ReturnRate         decimal.Decimal `yaml:"return_rate,omitempty" json:"return_rate,omitempty"`
}

// Assets groups the three account types the projection tracks.
// TaxDeferred is an RRSP/RRIF-style account: withdrawals are fully taxable and
// subject to the mandatory minimum schedule. TaxFree is a TFSA-style account.
// NonRegistered withdrawals of principal are not separately taxed in this model.
type Assets struct {
	TaxDeferred   Account `yaml:"tax_deferred" json:"tax_deferred"`
	TaxFree       Account `yaml:"tax_free" json:"tax_free"`
	NonRegistered Account `yaml:"non_registered" json:"non_registered"`
}

// BenefitElection is a government benefit election: the age payments start and
// the reference monthly amount at the benefit's standard age.
type BenefitElection struct {
	StartAge      int             `yaml:"start_age" json:"start_age"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
}

// IncomeSources holds the two government benefits. CPP carries an early
// reduction / delayed credit on election age; OAS is additionally means-tested
// against the prior year's income.
type IncomeSources struct {
	CPP BenefitElection `yaml:"cpp" json:"cpp"`
	OAS BenefitElection `yaml:"oas" json:"oas"`
}

// ExpenseOverride replaces the fixed monthly expense amount from Age forward,
// until a later override takes effect.
type ExpenseOverride struct {
	Age           int             `yaml:"age" json:"age"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
}

// Expenses is the retirement spending plan.
type Expenses struct {
	FixedMonthly       decimal.Decimal   `yaml:"fixed_monthly" json:"fixed_monthly"`
	VariableAnnual     decimal.Decimal   `yaml:"variable_annual" json:"variable_annual"`
	IndexedToInflation bool              `yaml:"indexed_to_inflation" json:"indexed_to_inflation"`
	Overrides          []ExpenseOverride `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Assumptions contains the deterministic economic rates. All rates are
// fractional (0.06 = 6%), never percentages.
type Assumptions struct {
	PreRetirementReturn  decimal.Decimal `yaml:"pre_retirement_return" json:"pre_retirement_return"`
	PostRetirementReturn decimal.Decimal `yaml:"post_retirement_return" json:"post_retirement_return"`
	InflationRate        decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
}

// Scenario is the complete input to the projection engine. The engine never
// mutates a Scenario; derived scenarios are produced via Clone.
type Scenario struct {
	Name          string        `yaml:"name" json:"name"`
	BasicInputs   BasicInputs   `yaml:"basic_inputs" json:"basic_inputs"`
	Assets        Assets        `yaml:"assets" json:"assets"`
	IncomeSources IncomeSources `yaml:"income_sources" json:"income_sources"`
	Expenses      Expenses      `yaml:"expenses" json:"expenses"`
	Assumptions   Assumptions   `yaml:"assumptions" json:"assumptions"`
}

// Clone returns a deep copy of the scenario.
func (s *Scenario) Clone() *Scenario {
	out := *s
	if len(s.Expenses.Overrides) > 0 {
		out.Expenses.Overrides = make([]ExpenseOverride, len(s.Expenses.Overrides))
		copy(out.Expenses.Overrides, s.Expenses.Overrides)
	}
	return &out
}

// SortOverrides orders the expense overrides by trigger age in place.
func (e *Expenses) SortOverrides() {
	sort.Slice(e.Overrides, func(i, j int) bool { return e.Overrides[i].Age < e.Overrides[j].Age })
}

// ActiveOverride returns the latest override whose trigger age is at or before
// the given age, or nil when none applies. Overrides must be sorted by age.
func (e *Expenses) ActiveOverride(age int) *ExpenseOverride {
	var active *ExpenseOverride
	for i := range e.Overrides {
		if e.Overrides[i].Age <= age {
			active = &e.Overrides[i]
		}
	}
	return active
}

// TotalBalance returns the combined balance across all three accounts.
func (a *Assets) TotalBalance() decimal.Decimal {
	return a.TaxDeferred.Balance.Add(a.TaxFree.Balance).Add(a.NonRegistered.Balance)
}

// ProjectionYears is the number of simulated years, one per age from current
// age through life expectancy inclusive.
func (b BasicInputs) ProjectionYears() int {
	return b.LifeExpectancyAge - b.CurrentAge + 1
}

// Validate checks the scenario invariants. It returns a *ValidationError for
// the first violated rule; a scenario that fails validation is never partially
// simulated.
func (s *Scenario) Validate() error {
	b := s.BasicInputs
	if b.CurrentAge <= 0 {
		return &ValidationError{Field: "basic_inputs.current_age", Reason: "must be positive"}
	}
	if b.RetirementAge < b.CurrentAge {
		return &ValidationError{Field: "basic_inputs.retirement_age", Reason: "cannot be before current age"}
	}
	if b.LifeExpectancyAge < b.RetirementAge {
		return &ValidationError{Field: "basic_inputs.life_expectancy_age", Reason: "cannot be before retirement age"}
	}
	if b.Province == "" {
		return &ValidationError{Field: "basic_inputs.province", Reason: "is required"}
	}

	accounts := []struct {
		name string
		acct Account
	}{
		{"assets.tax_deferred", s.Assets.TaxDeferred},
		{"assets.tax_free", s.Assets.TaxFree},
		{"assets.non_registered", s.Assets.NonRegistered},
	}
	for _, a := range accounts {
		if a.acct.Balance.IsNegative() {
			return &ValidationError{Field: a.name + ".balance", Reason: "cannot be negative"}
		}
		if a.acct.AnnualContribution.IsNegative() {
			return &ValidationError{Field: a.name + ".annual_contribution", Reason: "cannot be negative"}
		}
		if a.acct.ReturnRate.LessThan(decimal.NewFromInt(-1)) {
			return &ValidationError{Field: a.name + ".return_rate", Reason: "cannot be less than -100%"}
		}
	}

	if s.IncomeSources.CPP.MonthlyAmount.IsNegative() {
		return &ValidationError{Field: "income_sources.cpp.monthly_amount", Reason: "cannot be negative"}
	}
	if s.IncomeSources.OAS.MonthlyAmount.IsNegative() {
		return &ValidationError{Field: "income_sources.oas.monthly_amount", Reason: "cannot be negative"}
	}

	if s.Expenses.FixedMonthly.IsNegative() {
		return &ValidationError{Field: "expenses.fixed_monthly", Reason: "cannot be negative"}
	}
	if s.Expenses.VariableAnnual.IsNegative() {
		return &ValidationError{Field: "expenses.variable_annual", Reason: "cannot be negative"}
	}
	for i, ov := range s.Expenses.Overrides {
		if ov.MonthlyAmount.IsNegative() {
			return &ValidationError{Field: "expenses.overrides", Reason: "override amount cannot be negative"}
		}
		if i > 0 && ov.Age == s.Expenses.Overrides[i-1].Age {
			return &ValidationError{Field: "expenses.overrides", Reason: "duplicate override age"}
		}
	}

	as := s.Assumptions
	if as.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || as.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return &ValidationError{Field: "assumptions.inflation_rate", Reason: "must be between -10% and 20%"}
	}
	if as.PreRetirementReturn.LessThan(decimal.NewFromInt(-1)) {
		return &ValidationError{Field: "assumptions.pre_retirement_return", Reason: "cannot be less than -100%"}
	}
	if as.PostRetirementReturn.LessThan(decimal.NewFromInt(-1)) {
		return &ValidationError{Field: "assumptions.post_retirement_return", Reason: "cannot be less than -100%"}
	}

	return nil
}
