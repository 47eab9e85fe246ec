package domain

import "github.com/shopspring/decimal"

// YearlyProjection is one simulated year. Opening balances are before any
// flows; closing balances are after contributions or withdrawals and growth.
type YearlyProjection struct {
	Age     int  `yaml:"age" json:"age"`
	Retired bool `yaml:"retired" json:"retired"`

	OpeningTaxDeferred   decimal.Decimal `yaml:"opening_tax_deferred" json:"opening_tax_deferred"`
	OpeningTaxFree       decimal.Decimal `yaml:"opening_tax_free" json:"opening_tax_free"`
	OpeningNonRegistered decimal.Decimal `yaml:"opening_non_registered" json:"opening_non_registered"`

	CPPIncome decimal.Decimal `yaml:"cpp_income" json:"cpp_income"`
	OASIncome decimal.Decimal `yaml:"oas_income" json:"oas_income"`

	MandatoryWithdrawal     decimal.Decimal `yaml:"mandatory_withdrawal" json:"mandatory_withdrawal"`
	TaxDeferredWithdrawal   decimal.Decimal `yaml:"tax_deferred_withdrawal" json:"tax_deferred_withdrawal"`
	TaxFreeWithdrawal       decimal.Decimal `yaml:"tax_free_withdrawal" json:"tax_free_withdrawal"`
	NonRegisteredWithdrawal decimal.Decimal `yaml:"non_registered_withdrawal" json:"non_registered_withdrawal"`

	Expenses      decimal.Decimal `yaml:"expenses" json:"expenses"`
	TaxableIncome decimal.Decimal `yaml:"taxable_income" json:"taxable_income"`
	TaxPaid       decimal.Decimal `yaml:"tax_paid" json:"tax_paid"`
	NetSpendable  decimal.Decimal `yaml:"net_spendable" json:"net_spendable"`
	Shortfall     decimal.Decimal `yaml:"shortfall" json:"shortfall"`
	FullyFunded   bool            `yaml:"fully_funded" json:"fully_funded"`

	ClosingTaxDeferred   decimal.Decimal `yaml:"closing_tax_deferred" json:"closing_tax_deferred"`
	ClosingTaxFree       decimal.Decimal `yaml:"closing_tax_free" json:"closing_tax_free"`
	ClosingNonRegistered decimal.Decimal `yaml:"closing_non_registered" json:"closing_non_registered"`
}

// TotalWithdrawals returns the combined withdrawals across all accounts,
// mandatory minimum included.
func (y *YearlyProjection) TotalWithdrawals() decimal.Decimal {
	return y.TaxDeferredWithdrawal.Add(y.TaxFreeWithdrawal).Add(y.NonRegisteredWithdrawal)
}

// TotalBenefits returns the year's combined government benefit income.
func (y *YearlyProjection) TotalBenefits() decimal.Decimal {
	return y.CPPIncome.Add(y.OASIncome)
}

// ClosingTotal returns the combined closing balance across all accounts.
func (y *YearlyProjection) ClosingTotal() decimal.Decimal {
	return y.ClosingTaxDeferred.Add(y.ClosingTaxFree).Add(y.ClosingNonRegistered)
}

// OpeningTotal returns the combined opening balance across all accounts.
func (y *YearlyProjection) OpeningTotal() decimal.Decimal {
	return y.OpeningTaxDeferred.Add(y.OpeningTaxFree).Add(y.OpeningNonRegistered)
}

// CalculationResults is a full projection run: one entry per age plus
// lifetime aggregates.
type CalculationResults struct {
	ScenarioName          string             `yaml:"scenario_name" json:"scenario_name"`
	Years                 []YearlyProjection `yaml:"years" json:"years"`
	FinalPortfolioValue   decimal.Decimal    `yaml:"final_portfolio_value" json:"final_portfolio_value"`
	DepletionAge          *int               `yaml:"depletion_age,omitempty" json:"depletion_age,omitempty"`
	TotalLifetimeTax      decimal.Decimal    `yaml:"total_lifetime_tax" json:"total_lifetime_tax"`
	TotalLifetimeBenefits decimal.Decimal    `yaml:"total_lifetime_benefits" json:"total_lifetime_benefits"`
}

// Depleted reports whether the portfolio ran out before the horizon.
func (r *CalculationResults) Depleted() bool {
	return r.DepletionAge != nil
}

// YearAt returns the projection entry for the given age, or nil when the age
// falls outside the simulated range.
func (r *CalculationResults) YearAt(age int) *YearlyProjection {
	for i := range r.Years {
		if r.Years[i].Age == age {
			return &r.Years[i]
		}
	}
	return nil
}
