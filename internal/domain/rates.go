package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of a progressive schedule. UpTo is the upper bound
// of the slice; a zero UpTo marks the unbounded top bracket.
type TaxBracket struct {
	UpTo decimal.Decimal `yaml:"up_to" json:"up_to"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// Unbounded reports whether this bracket has no upper limit.
func (b TaxBracket) Unbounded() bool {
	return b.UpTo.IsZero()
}

// BenefitParameters describes one government benefit program: the election-age
// window, the standard age whose multiplier is 1.0, the adjustment table keyed
// by election age, and the means-test parameters (all zero for a benefit that
// is not means-tested).
type BenefitParameters struct {
	StandardAge       int                     `yaml:"standard_age" json:"standard_age"`
	MinStartAge       int                     `yaml:"min_start_age" json:"min_start_age"`
	MaxStartAge       int                     `yaml:"max_start_age" json:"max_start_age"`
	AdjustmentFactors map[int]decimal.Decimal `yaml:"adjustment_factors" json:"adjustment_factors"`
	ClawbackThreshold decimal.Decimal         `yaml:"clawback_threshold,omitempty" json:"clawback_threshold,omitempty"`
	ClawbackRate      decimal.Decimal         `yaml:"clawback_rate,omitempty" json:"clawback_rate,omitempty"`
	ClawbackCeiling   decimal.Decimal         `yaml:"clawback_ceiling,omitempty" json:"clawback_ceiling,omitempty"`
}

// MeansTested reports whether the benefit carries an income-based clawback.
func (p BenefitParameters) MeansTested() bool {
	return p.ClawbackRate.IsPositive()
}

// WithdrawalSchedule is the mandatory-minimum table for tax-deferred accounts:
// a starting age and per-age balance fractions. Ages past the last table entry
// use the final fraction.
type WithdrawalSchedule struct {
	MinimumAge int                     `yaml:"minimum_age" json:"minimum_age"`
	Fractions  map[int]decimal.Decimal `yaml:"fractions" json:"fractions"`
}

// MaxTableAge returns the highest age present in the fraction table, or zero
// when the table is empty.
func (w WithdrawalSchedule) MaxTableAge() int {
	max := 0
	for age := range w.Fractions {
		if age > max {
			max = age
		}
	}
	return max
}

// RateSet bundles every regulatory input the engine consumes for one rules
// year: tax schedules, benefit programs, and the mandatory withdrawal table.
type RateSet struct {
	Year               int                     `yaml:"year" json:"year"`
	FederalBrackets    []TaxBracket            `yaml:"federal_brackets" json:"federal_brackets"`
	ProvincialBrackets map[string][]TaxBracket `yaml:"provincial_brackets" json:"provincial_brackets"`
	CPP                BenefitParameters       `yaml:"cpp" json:"cpp"`
	OAS                BenefitParameters       `yaml:"oas" json:"oas"`
	MinimumWithdrawals WithdrawalSchedule      `yaml:"minimum_withdrawals" json:"minimum_withdrawals"`
}

// BracketsForProvince returns the provincial schedule for the given code.
func (r *RateSet) BracketsForProvince(code string) ([]TaxBracket, error) {
	brackets, ok := r.ProvincialBrackets[code]
	if !ok {
		return nil, &ConfigurationError{Subject: "province " + code, Reason: "no tax schedule in rate set"}
	}
	return brackets, nil
}

// Validate checks structural invariants of the rate set: bracket schedules
// must ascend in both bound and rate with exactly one unbounded top bracket,
// benefit windows
// must be coherent, and the withdrawal table must cover its starting age.
func (r *RateSet) Validate() error {
	if err := validateBrackets("federal_brackets", r.FederalBrackets); err != nil {
		return err
	}
	if len(r.ProvincialBrackets) == 0 {
		return &ConfigurationError{Subject: "provincial_brackets", Reason: "at least one province is required"}
	}
	for code, brackets := range r.ProvincialBrackets {
		if err := validateBrackets("provincial_brackets."+code, brackets); err != nil {
			return err
		}
	}
	if err := validateBenefit("cpp", r.CPP); err != nil {
		return err
	}
	if err := validateBenefit("oas", r.OAS); err != nil {
		return err
	}
	return validateSchedule(r.MinimumWithdrawals)
}

func validateBrackets(name string, brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return &ConfigurationError{Subject: name, Reason: "schedule is empty"}
	}
	prev := decimal.Zero
	prevRate := decimal.Zero
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return &ConfigurationError{Subject: name, Reason: fmt.Sprintf("bracket %d rate out of range", i)}
		}
		if b.Rate.LessThan(prevRate) {
			return &ConfigurationError{Subject: name, Reason: fmt.Sprintf("bracket %d rate falls below the previous bracket", i)}
		}
		prevRate = b.Rate
		if b.Unbounded() {
			if i != len(brackets)-1 {
				return &ConfigurationError{Subject: name, Reason: fmt.Sprintf("unbounded bracket %d is not last", i)}
			}
			continue
		}
		if b.UpTo.LessThanOrEqual(prev) {
			return &ConfigurationError{Subject: name, Reason: fmt.Sprintf("bracket %d bound does not ascend", i)}
		}
		prev = b.UpTo
	}
	if !brackets[len(brackets)-1].Unbounded() {
		return &ConfigurationError{Subject: name, Reason: "top bracket must be unbounded"}
	}
	return nil
}

func validateBenefit(name string, p BenefitParameters) error {
	if p.MinStartAge > p.StandardAge || p.StandardAge > p.MaxStartAge {
		return &ConfigurationError{Subject: name, Reason: "election window must contain the standard age"}
	}
	if len(p.AdjustmentFactors) == 0 {
		return &ConfigurationError{Subject: name, Reason: "adjustment table is empty"}
	}
	std, ok := p.AdjustmentFactors[p.StandardAge]
	if !ok || !std.Equal(decimal.NewFromInt(1)) {
		return &ConfigurationError{Subject: name, Reason: "standard age must map to factor 1.0"}
	}
	ages := make([]int, 0, len(p.AdjustmentFactors))
	for age, factor := range p.AdjustmentFactors {
		if factor.IsNegative() {
			return &ConfigurationError{Subject: name, Reason: "adjustment factor cannot be negative"}
		}
		ages = append(ages, age)
	}
	sort.Ints(ages)
	if ages[0] > p.MinStartAge || ages[len(ages)-1] < p.MaxStartAge {
		return &ConfigurationError{Subject: name, Reason: "adjustment table must span the election window"}
	}
	if p.MeansTested() {
		if p.ClawbackThreshold.IsNegative() {
			return &ConfigurationError{Subject: name, Reason: "clawback threshold cannot be negative"}
		}
		if !p.ClawbackCeiling.IsZero() && p.ClawbackCeiling.LessThanOrEqual(p.ClawbackThreshold) {
			return &ConfigurationError{Subject: name, Reason: "clawback ceiling must exceed the threshold"}
		}
	}
	return nil
}

func validateSchedule(w WithdrawalSchedule) error {
	if w.MinimumAge <= 0 {
		return &ConfigurationError{Subject: "minimum_withdrawals", Reason: "minimum age must be positive"}
	}
	if len(w.Fractions) == 0 {
		return &ConfigurationError{Subject: "minimum_withdrawals", Reason: "fraction table is empty"}
	}
	if _, ok := w.Fractions[w.MinimumAge]; !ok {
		return &ConfigurationError{Subject: "minimum_withdrawals", Reason: "fraction table must include the minimum age"}
	}
	for age, f := range w.Fractions {
		if f.IsNegative() || f.GreaterThan(decimal.NewFromInt(1)) {
			return &ConfigurationError{Subject: "minimum_withdrawals", Reason: fmt.Sprintf("fraction at age %d out of range", age)}
		}
	}
	return nil
}
