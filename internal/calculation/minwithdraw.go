package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

// MinimumWithdrawalRule computes the mandatory annual withdrawal from the
// tax-deferred account under an age-indexed fraction schedule.
type MinimumWithdrawalRule struct {
	schedule domain.WithdrawalSchedule
	maxAge   int
}

// NewMinimumWithdrawalRule wraps a validated withdrawal schedule.
func NewMinimumWithdrawalRule(schedule domain.WithdrawalSchedule) *MinimumWithdrawalRule {
	return &MinimumWithdrawalRule{schedule: schedule, maxAge: schedule.MaxTableAge()}
}

// Applies reports whether the rule forces a withdrawal at the given age.
func (r *MinimumWithdrawalRule) Applies(age int) bool {
	return age >= r.schedule.MinimumAge
}

// Fraction returns the required balance fraction at the given age: zero below
// the minimum age, the table value in range, and the final table value for
// ages past the end of the table.
func (r *MinimumWithdrawalRule) Fraction(age int) decimal.Decimal {
	if !r.Applies(age) {
		return decimal.Zero
	}
	if age > r.maxAge {
		return r.schedule.Fractions[r.maxAge]
	}
	if f, ok := r.schedule.Fractions[age]; ok {
		return f
	}

	// Gap in the table: interpolate between the nearest surrounding entries.
	lower, upper := r.schedule.MinimumAge, r.maxAge
	for a := range r.schedule.Fractions {
		if a < age && a > lower {
			lower = a
		}
		if a > age && a < upper {
			upper = a
		}
	}
	span := decimal.NewFromInt(int64(upper - lower))
	offset := decimal.NewFromInt(int64(age - lower))
	low, high := r.schedule.Fractions[lower], r.schedule.Fractions[upper]
	return low.Add(high.Sub(low).Mul(offset.Div(span)))
}

// Required returns the mandatory withdrawal for the year: the age fraction
// applied to the account's opening balance, capped by the balance itself.
func (r *MinimumWithdrawalRule) Required(age int, openingBalance decimal.Decimal) decimal.Decimal {
	if openingBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	required := openingBalance.Mul(r.Fraction(age))
	return decimal.Min(required, openingBalance)
}
