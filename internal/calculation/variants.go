package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

// Variant is one supported scenario transformation. The set is closed: each
// implementation carries exactly the parameters its transformation needs, and
// unknown variant names never reach an apply call.
type Variant interface {
	// Kind returns the variant's canonical name.
	Kind() string
	// Apply returns a transformed copy of the baseline. The baseline is
	// never mutated.
	Apply(baseline *domain.Scenario) *domain.Scenario
}

// FrontLoadVariant shifts spending toward early retirement: +30% of the
// fixed monthly amount at retirement, -15% ten years in, -25% twenty years
// in, expressed as three age-triggered overrides.
type FrontLoadVariant struct{}

func (FrontLoadVariant) Kind() string { return "front-load" }

func (FrontLoadVariant) Apply(baseline *domain.Scenario) *domain.Scenario {
	out := baseline.Clone()
	out.Name = baseline.Name + " (front-loaded)"

	base := baseline.Expenses.FixedMonthly
	retirement := baseline.BasicInputs.RetirementAge
	out.Expenses.Overrides = append(out.Expenses.Overrides,
		domain.ExpenseOverride{Age: retirement, MonthlyAmount: base.Mul(decimal.NewFromFloat(1.30))},
		domain.ExpenseOverride{Age: retirement + 10, MonthlyAmount: base.Mul(decimal.NewFromFloat(0.85))},
		domain.ExpenseOverride{Age: retirement + 20, MonthlyAmount: base.Mul(decimal.NewFromFloat(0.75))},
	)
	out.Expenses.SortOverrides()
	return out
}

// DelayBenefitsVariant pushes both benefit elections to the late start age.
type DelayBenefitsVariant struct {
	StartAge int
}

func (DelayBenefitsVariant) Kind() string { return "delay-benefits" }

func (v DelayBenefitsVariant) Apply(baseline *domain.Scenario) *domain.Scenario {
	startAge := v.StartAge
	if startAge == 0 {
		startAge = 70
	}
	out := baseline.Clone()
	out.Name = baseline.Name + " (delayed benefits)"
	out.IncomeSources.CPP.StartAge = startAge
	out.IncomeSources.OAS.StartAge = startAge
	return out
}

// RetireEarlierVariant moves the retirement age forward by Years (default 3).
type RetireEarlierVariant struct {
	Years int
}

func (RetireEarlierVariant) Kind() string { return "retire-earlier" }

func (v RetireEarlierVariant) Apply(baseline *domain.Scenario) *domain.Scenario {
	years := v.Years
	if years == 0 {
		years = 3
	}
	out := baseline.Clone()
	out.Name = baseline.Name + " (earlier retirement)"
	out.BasicInputs.RetirementAge = baseline.BasicInputs.RetirementAge - years
	return out
}

// VariantByName resolves a canonical variant name to its default-configured
// implementation. Unknown names are a *domain.ConfigurationError.
func VariantByName(name string) (Variant, error) {
	switch name {
	case "front-load":
		return FrontLoadVariant{}, nil
	case "delay-benefits":
		return DelayBenefitsVariant{}, nil
	case "retire-earlier":
		return RetireEarlierVariant{}, nil
	default:
		return nil, &domain.ConfigurationError{Subject: "variant " + name, Reason: "unknown variant kind"}
	}
}

// VariantNames lists the supported variant kinds.
func VariantNames() []string {
	return []string{"front-load", "delay-benefits", "retire-earlier"}
}

// ApplyVariantByName applies a named variant to the baseline. For an unknown
// name it returns an unmodified copy of the baseline alongside the error so
// callers can fall back deliberately rather than silently.
func ApplyVariantByName(name string, baseline *domain.Scenario) (*domain.Scenario, error) {
	variant, err := VariantByName(name)
	if err != nil {
		return baseline.Clone(), err
	}
	return variant.Apply(baseline), nil
}
