package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

var one = decimal.NewFromInt(1)

// projector runs one scenario through the year-by-year simulation. It is
// built fresh per run; the engine owns the shared calculators.
type projector struct {
	scenario  *domain.Scenario
	taxes     *TaxCalculator
	cpp       *BenefitCalculator
	oas       *BenefitCalculator
	minRule   *MinimumWithdrawalRule
	sequencer *WithdrawalSequencer
	logger    Logger

	balances Balances

	// Effective expense bases, advanced by inflation each simulated year.
	fixedMonthly   decimal.Decimal
	variableAnnual decimal.Decimal

	// Prior year's taxable income, feeding the means test one year late.
	priorTaxableIncome decimal.Decimal
}

func newProjector(scenario *domain.Scenario, taxes *TaxCalculator, cpp, oas *BenefitCalculator,
	minRule *MinimumWithdrawalRule, sequencer *WithdrawalSequencer, logger Logger) *projector {
	fixedMonthly := scenario.Expenses.FixedMonthly
	if ov := scenario.Expenses.ActiveOverride(scenario.BasicInputs.CurrentAge); ov != nil {
		fixedMonthly = ov.MonthlyAmount
	}
	return &projector{
		scenario:  scenario,
		taxes:     taxes,
		cpp:       cpp,
		oas:       oas,
		minRule:   minRule,
		sequencer: sequencer,
		logger:    logger,
		balances: Balances{
			TaxDeferred:   scenario.Assets.TaxDeferred.Balance,
			TaxFree:       scenario.Assets.TaxFree.Balance,
			NonRegistered: scenario.Assets.NonRegistered.Balance,
		},
		fixedMonthly:   fixedMonthly,
		variableAnnual: scenario.Expenses.VariableAnnual,
	}
}

// run simulates every year from current age through life expectancy and
// assembles the results with lifetime aggregates.
func (p *projector) run() *domain.CalculationResults {
	b := p.scenario.BasicInputs
	results := &domain.CalculationResults{
		ScenarioName: p.scenario.Name,
		Years:        make([]domain.YearlyProjection, 0, b.ProjectionYears()),
	}

	for age := b.CurrentAge; age <= b.LifeExpectancyAge; age++ {
		year := p.simulateYear(age)
		results.Years = append(results.Years, year)

		results.TotalLifetimeTax = results.TotalLifetimeTax.Add(year.TaxPaid)
		results.TotalLifetimeBenefits = results.TotalLifetimeBenefits.Add(year.TotalBenefits())
		if results.DepletionAge == nil && year.ClosingTotal().LessThanOrEqual(decimal.Zero) {
			depleted := age
			results.DepletionAge = &depleted
			p.logger.Infof("portfolio depleted at age %d", age)
		}
	}

	if n := len(results.Years); n > 0 {
		results.FinalPortfolioValue = results.Years[n-1].ClosingTotal()
	}
	return results
}

// simulateYear produces one projection entry and advances the projector state.
func (p *projector) simulateYear(age int) domain.YearlyProjection {
	retired := age >= p.scenario.BasicInputs.RetirementAge

	year := domain.YearlyProjection{
		Age:                  age,
		Retired:              retired,
		OpeningTaxDeferred:   p.balances.TaxDeferred,
		OpeningTaxFree:       p.balances.TaxFree,
		OpeningNonRegistered: p.balances.NonRegistered,
	}

	// Benefits pay from their elected start age even before retirement.
	year.CPPIncome = p.cpp.Annual(age, p.scenario.IncomeSources.CPP, p.priorTaxableIncome)
	year.OASIncome = p.oas.Annual(age, p.scenario.IncomeSources.OAS, p.priorTaxableIncome)

	if retired {
		p.simulateRetirementYear(age, &year)
	} else {
		p.simulateAccumulationYear(&year)
	}

	year.ClosingTaxDeferred = p.balances.TaxDeferred
	year.ClosingTaxFree = p.balances.TaxFree
	year.ClosingNonRegistered = p.balances.NonRegistered

	p.priorTaxableIncome = year.TaxableIncome
	p.advanceExpenseBases(age)
	return year
}

func (p *projector) simulateAccumulationYear(year *domain.YearlyProjection) {
	assets := p.scenario.Assets

	year.TaxableIncome = year.TotalBenefits()
	year.TaxPaid = p.taxes.Calculate(year.TaxableIncome)
	year.NetSpendable = year.TotalBenefits().Sub(year.TaxPaid)
	year.FullyFunded = true

	p.balances.TaxDeferred = p.grow(p.balances.TaxDeferred.Add(assets.TaxDeferred.AnnualContribution), assets.TaxDeferred, false)
	p.balances.TaxFree = p.grow(p.balances.TaxFree.Add(assets.TaxFree.AnnualContribution), assets.TaxFree, false)
	p.balances.NonRegistered = p.grow(p.balances.NonRegistered.Add(assets.NonRegistered.AnnualContribution), assets.NonRegistered, false)
}

func (p *projector) simulateRetirementYear(age int, year *domain.YearlyProjection) {
	assets := p.scenario.Assets

	year.Expenses = p.annualExpenses()
	year.MandatoryWithdrawal = p.minRule.Required(age, p.balances.TaxDeferred)

	gap := year.Expenses.Sub(year.TotalBenefits())
	withdrawals := p.sequencer.Sequence(gap, p.balances, year.MandatoryWithdrawal)

	year.TaxDeferredWithdrawal = withdrawals.TaxDeferred
	year.TaxFreeWithdrawal = withdrawals.TaxFree
	year.NonRegisteredWithdrawal = withdrawals.NonRegistered
	year.Shortfall = withdrawals.Shortfall
	year.FullyFunded = withdrawals.Shortfall.IsZero()

	// Tax-deferred withdrawals and benefit income are both fully taxable.
	year.TaxableIncome = withdrawals.TaxDeferred.Add(year.TotalBenefits())
	year.TaxPaid = p.taxes.Calculate(year.TaxableIncome)
	year.NetSpendable = year.TotalBenefits().Add(withdrawals.Total()).Sub(year.TaxPaid)

	// A mandatory minimum above the funding gap leaves surplus cash; it is
	// reinvested into the non-registered account before growth.
	surplus := withdrawals.Total().Sub(decimal.Max(gap, decimal.Zero))
	if surplus.IsPositive() {
		p.logger.Debugf("age %d: reinvesting mandatory surplus %s", age, surplus.StringFixed(2))
	} else {
		surplus = decimal.Zero
	}

	p.balances.TaxDeferred = p.grow(p.balances.TaxDeferred.Sub(withdrawals.TaxDeferred), assets.TaxDeferred, true)
	p.balances.TaxFree = p.grow(p.balances.TaxFree.Sub(withdrawals.TaxFree), assets.TaxFree, true)
	p.balances.NonRegistered = p.grow(p.balances.NonRegistered.Sub(withdrawals.NonRegistered).Add(surplus), assets.NonRegistered, true)
}

// grow applies the year's return to a balance after flows are netted. The
// account's own rate wins over the phase assumption rate when set.
func (p *projector) grow(balance decimal.Decimal, account domain.Account, retired bool) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rate := account.ReturnRate
	if rate.IsZero() {
		if retired {
			rate = p.scenario.Assumptions.PostRetirementReturn
		} else {
			rate = p.scenario.Assumptions.PreRetirementReturn
		}
	}
	return balance.Mul(one.Add(rate))
}

// annualExpenses returns the current year's spending: twelve months of the
// effective fixed base plus the variable annual amount.
func (p *projector) annualExpenses() decimal.Decimal {
	return p.fixedMonthly.Mul(months).Add(p.variableAnnual)
}

// advanceExpenseBases moves the expense state into the next year: an
// age-triggered override replaces the fixed base from the following age, and
// inflation compounds both bases when indexing is on.
func (p *projector) advanceExpenseBases(age int) {
	if p.scenario.Expenses.IndexedToInflation {
		factor := one.Add(p.scenario.Assumptions.InflationRate)
		p.fixedMonthly = p.fixedMonthly.Mul(factor)
		p.variableAnnual = p.variableAnnual.Mul(factor)
	}
	for _, ov := range p.scenario.Expenses.Overrides {
		if ov.Age == age+1 {
			p.fixedMonthly = ov.MonthlyAmount
		}
	}
}
