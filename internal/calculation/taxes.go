package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

// TaxCalculator computes combined federal and provincial income tax for one
// province under a rate set's progressive schedules.
type TaxCalculator struct {
	federal    []domain.TaxBracket
	provincial []domain.TaxBracket
}

// NewTaxCalculator builds a calculator for the given province. The rate set
// must already be validated.
func NewTaxCalculator(rates *domain.RateSet, province string) (*TaxCalculator, error) {
	provincial, err := rates.BracketsForProvince(province)
	if err != nil {
		return nil, err
	}
	return &TaxCalculator{
		federal:    rates.FederalBrackets,
		provincial: provincial,
	}, nil
}

// Calculate returns the total tax on the given taxable income: the federal
// and provincial schedules applied independently and summed. Zero or negative
// income produces zero tax.
func (tc *TaxCalculator) Calculate(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return applyBrackets(taxableIncome, tc.federal).Add(applyBrackets(taxableIncome, tc.provincial))
}

// EffectiveRate returns total tax divided by income, or zero for non-positive
// income.
func (tc *TaxCalculator) EffectiveRate(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return tc.Calculate(taxableIncome).Div(taxableIncome)
}

// MarginalRate returns the combined federal plus provincial rate applying to
// the next dollar of income.
func (tc *TaxCalculator) MarginalRate(taxableIncome decimal.Decimal) decimal.Decimal {
	return marginalBracketRate(taxableIncome, tc.federal).Add(marginalBracketRate(taxableIncome, tc.provincial))
}

// applyBrackets walks one progressive schedule, taxing each slice of income
// at its bracket rate.
func applyBrackets(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero

	for _, bracket := range brackets {
		if income.LessThanOrEqual(lower) {
			break
		}

		upper := income
		if !bracket.Unbounded() {
			upper = decimal.Min(income, bracket.UpTo)
		}

		tax = tax.Add(upper.Sub(lower).Mul(bracket.Rate))
		lower = bracket.UpTo
	}

	return tax
}

func marginalBracketRate(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	for _, bracket := range brackets {
		if bracket.Unbounded() || income.LessThan(bracket.UpTo) {
			return bracket.Rate
		}
	}
	return decimal.Zero
}
