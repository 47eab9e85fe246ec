package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

var months = decimal.NewFromInt(12)

// BenefitCalculator applies election-age adjustments and means-testing to one
// government benefit program.
type BenefitCalculator struct {
	params domain.BenefitParameters
}

// NewBenefitCalculator wraps the given benefit parameters.
func NewBenefitCalculator(params domain.BenefitParameters) *BenefitCalculator {
	return &BenefitCalculator{params: params}
}

// ClampStartAge restricts an elected start age to the program's window.
func (bc *BenefitCalculator) ClampStartAge(startAge int) int {
	if startAge < bc.params.MinStartAge {
		return bc.params.MinStartAge
	}
	if startAge > bc.params.MaxStartAge {
		return bc.params.MaxStartAge
	}
	return startAge
}

// AdjustedMonthly returns the monthly payment for an election: the reference
// amount at the standard age scaled by the start-age adjustment factor.
func (bc *BenefitCalculator) AdjustedMonthly(election domain.BenefitElection) decimal.Decimal {
	startAge := bc.ClampStartAge(election.StartAge)
	return election.MonthlyAmount.Mul(bc.adjustmentFactor(startAge))
}

// adjustmentFactor looks up the multiplier for a start age, linearly
// interpolating between the two nearest table entries when the exact age is
// absent.
func (bc *BenefitCalculator) adjustmentFactor(startAge int) decimal.Decimal {
	factors := bc.params.AdjustmentFactors
	if f, ok := factors[startAge]; ok {
		return f
	}

	lowerAge, upperAge := 0, 0
	for age := range factors {
		if age < startAge && (lowerAge == 0 || age > lowerAge) {
			lowerAge = age
		}
		if age > startAge && (upperAge == 0 || age < upperAge) {
			upperAge = age
		}
	}
	if lowerAge == 0 {
		return factors[upperAge]
	}
	if upperAge == 0 {
		return factors[lowerAge]
	}

	span := decimal.NewFromInt(int64(upperAge - lowerAge))
	offset := decimal.NewFromInt(int64(startAge - lowerAge))
	low, high := factors[lowerAge], factors[upperAge]
	return low.Add(high.Sub(low).Mul(offset.Div(span)))
}

// AnnualGross returns the year's benefit income at the given age before any
// means test: zero before the elected start age, twelve adjusted monthly
// payments from the start age on.
func (bc *BenefitCalculator) AnnualGross(age int, election domain.BenefitElection) decimal.Decimal {
	if election.MonthlyAmount.IsZero() || age < bc.ClampStartAge(election.StartAge) {
		return decimal.Zero
	}
	return bc.AdjustedMonthly(election).Mul(months)
}

// ApplyClawback reduces a gross annual benefit under the program's means
// test. The test inspects the prior year's income: payments are reduced at
// the clawback rate on income above the threshold and eliminated entirely at
// the ceiling. Programs without a means test pass the gross through.
func (bc *BenefitCalculator) ApplyClawback(gross, priorYearIncome decimal.Decimal) decimal.Decimal {
	p := bc.params
	if !p.MeansTested() || gross.IsZero() {
		return gross
	}
	if priorYearIncome.LessThanOrEqual(p.ClawbackThreshold) {
		return gross
	}
	if !p.ClawbackCeiling.IsZero() && priorYearIncome.GreaterThanOrEqual(p.ClawbackCeiling) {
		return decimal.Zero
	}

	reduction := priorYearIncome.Sub(p.ClawbackThreshold).Mul(p.ClawbackRate)
	if reduction.GreaterThanOrEqual(gross) {
		return decimal.Zero
	}
	return gross.Sub(reduction)
}

// Annual returns the year's net benefit income: the gross amount for the age
// with the means test applied against the prior year's income.
func (bc *BenefitCalculator) Annual(age int, election domain.BenefitElection, priorYearIncome decimal.Decimal) decimal.Decimal {
	return bc.ApplyClawback(bc.AnnualGross(age, election), priorYearIncome)
}
