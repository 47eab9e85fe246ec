package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// yaml.v3 has no hook for shopspring decimals, so every struct carrying
// monetary fields round-trips through an alias with string fields, parsed
// with decimal.NewFromString. Empty strings read as zero.

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal for %s: %w", field, err)
	}
	return d, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Account.
func (a *Account) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		Balance            string `yaml:"balance"`
		AnnualContribution string `yaml:"annual_contribution"`
		ReturnRate         string `yaml:"return_rate"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	var err error
	if a.Balance, err = parseDecimal("balance", aux.Balance); err != nil {
		return err
	}
	if a.AnnualContribution, err = parseDecimal("annual_contribution", aux.AnnualContribution); err != nil {
		return err
	}
	if a.ReturnRate, err = parseDecimal("return_rate", aux.ReturnRate); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for Account.
func (a Account) MarshalYAML() (any, error) {
	out := map[string]string{
		"balance":             a.Balance.String(),
		"annual_contribution": a.AnnualContribution.String(),
	}
	if !a.ReturnRate.IsZero() {
		out["return_rate"] = a.ReturnRate.String()
	}
	return out, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for BenefitElection.
func (b *BenefitElection) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		StartAge      int    `yaml:"start_age"`
		MonthlyAmount string `yaml:"monthly_amount"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	b.StartAge = aux.StartAge
	var err error
	if b.MonthlyAmount, err = parseDecimal("monthly_amount", aux.MonthlyAmount); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for BenefitElection.
func (b BenefitElection) MarshalYAML() (any, error) {
	return map[string]any{
		"start_age":      b.StartAge,
		"monthly_amount": b.MonthlyAmount.String(),
	}, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for ExpenseOverride.
func (o *ExpenseOverride) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		Age           int    `yaml:"age"`
		MonthlyAmount string `yaml:"monthly_amount"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	o.Age = aux.Age
	var err error
	if o.MonthlyAmount, err = parseDecimal("monthly_amount", aux.MonthlyAmount); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for ExpenseOverride.
func (o ExpenseOverride) MarshalYAML() (any, error) {
	return map[string]any{
		"age":            o.Age,
		"monthly_amount": o.MonthlyAmount.String(),
	}, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Expenses.
func (e *Expenses) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		FixedMonthly       string            `yaml:"fixed_monthly"`
		VariableAnnual     string            `yaml:"variable_annual"`
		IndexedToInflation bool              `yaml:"indexed_to_inflation"`
		Overrides          []ExpenseOverride `yaml:"overrides"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	e.IndexedToInflation = aux.IndexedToInflation
	e.Overrides = aux.Overrides
	var err error
	if e.FixedMonthly, err = parseDecimal("fixed_monthly", aux.FixedMonthly); err != nil {
		return err
	}
	if e.VariableAnnual, err = parseDecimal("variable_annual", aux.VariableAnnual); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for Expenses.
func (e Expenses) MarshalYAML() (any, error) {
	out := map[string]any{
		"fixed_monthly":        e.FixedMonthly.String(),
		"variable_annual":      e.VariableAnnual.String(),
		"indexed_to_inflation": e.IndexedToInflation,
	}
	if len(e.Overrides) > 0 {
		out["overrides"] = e.Overrides
	}
	return out, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Assumptions.
func (a *Assumptions) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		PreRetirementReturn  string `yaml:"pre_retirement_return"`
		PostRetirementReturn string `yaml:"post_retirement_return"`
		InflationRate        string `yaml:"inflation_rate"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	var err error
	if a.PreRetirementReturn, err = parseDecimal("pre_retirement_return", aux.PreRetirementReturn); err != nil {
		return err
	}
	if a.PostRetirementReturn, err = parseDecimal("post_retirement_return", aux.PostRetirementReturn); err != nil {
		return err
	}
	if a.InflationRate, err = parseDecimal("inflation_rate", aux.InflationRate); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for Assumptions.
func (a Assumptions) MarshalYAML() (any, error) {
	return map[string]string{
		"pre_retirement_return":  a.PreRetirementReturn.String(),
		"post_retirement_return": a.PostRetirementReturn.String(),
		"inflation_rate":         a.InflationRate.String(),
	}, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for TaxBracket.
func (b *TaxBracket) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		UpTo string `yaml:"up_to"`
		Rate string `yaml:"rate"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	var err error
	if b.UpTo, err = parseDecimal("up_to", aux.UpTo); err != nil {
		return err
	}
	if b.Rate, err = parseDecimal("rate", aux.Rate); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for TaxBracket.
func (b TaxBracket) MarshalYAML() (any, error) {
	out := map[string]string{"rate": b.Rate.String()}
	if !b.Unbounded() {
		out["up_to"] = b.UpTo.String()
	}
	return out, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for BenefitParameters.
func (p *BenefitParameters) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		StandardAge       int            `yaml:"standard_age"`
		MinStartAge       int            `yaml:"min_start_age"`
		MaxStartAge       int            `yaml:"max_start_age"`
		AdjustmentFactors map[int]string `yaml:"adjustment_factors"`
		ClawbackThreshold string         `yaml:"clawback_threshold"`
		ClawbackRate      string         `yaml:"clawback_rate"`
		ClawbackCeiling   string         `yaml:"clawback_ceiling"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	p.StandardAge = aux.StandardAge
	p.MinStartAge = aux.MinStartAge
	p.MaxStartAge = aux.MaxStartAge

	var err error
	p.AdjustmentFactors = make(map[int]decimal.Decimal, len(aux.AdjustmentFactors))
	for age, factor := range aux.AdjustmentFactors {
		if p.AdjustmentFactors[age], err = parseDecimal(fmt.Sprintf("adjustment_factors.%d", age), factor); err != nil {
			return err
		}
	}
	if p.ClawbackThreshold, err = parseDecimal("clawback_threshold", aux.ClawbackThreshold); err != nil {
		return err
	}
	if p.ClawbackRate, err = parseDecimal("clawback_rate", aux.ClawbackRate); err != nil {
		return err
	}
	if p.ClawbackCeiling, err = parseDecimal("clawback_ceiling", aux.ClawbackCeiling); err != nil {
		return err
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for BenefitParameters.
func (p BenefitParameters) MarshalYAML() (any, error) {
	factors := make(map[int]string, len(p.AdjustmentFactors))
	for age, f := range p.AdjustmentFactors {
		factors[age] = f.String()
	}
	out := map[string]any{
		"standard_age":       p.StandardAge,
		"min_start_age":      p.MinStartAge,
		"max_start_age":      p.MaxStartAge,
		"adjustment_factors": factors,
	}
	if p.MeansTested() {
		out["clawback_threshold"] = p.ClawbackThreshold.String()
		out["clawback_rate"] = p.ClawbackRate.String()
		out["clawback_ceiling"] = p.ClawbackCeiling.String()
	}
	return out, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for WithdrawalSchedule.
func (w *WithdrawalSchedule) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		MinimumAge int            `yaml:"minimum_age"`
		Fractions  map[int]string `yaml:"fractions"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	w.MinimumAge = aux.MinimumAge
	var err error
	w.Fractions = make(map[int]decimal.Decimal, len(aux.Fractions))
	for age, fraction := range aux.Fractions {
		if w.Fractions[age], err = parseDecimal(fmt.Sprintf("fractions.%d", age), fraction); err != nil {
			return err
		}
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for WithdrawalSchedule.
func (w WithdrawalSchedule) MarshalYAML() (any, error) {
	fractions := make(map[int]string, len(w.Fractions))
	for age, f := range w.Fractions {
		fractions[age] = f.String()
	}
	return map[string]any{
		"minimum_age": w.MinimumAge,
		"fractions":   fractions,
	}, nil
}
