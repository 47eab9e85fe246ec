package calculation

import (
	"fmt"

	"github.com/retirewise/planner/internal/domain"
)

// Engine is the projection entry point. It owns the rate set and the
// withdrawal policy; individual runs share both and never mutate them, so a
// single Engine is safe for concurrent use.
type Engine struct {
	rates  *domain.RateSet
	policy WithdrawalPolicy
	logger Logger
}

// NewEngine builds an engine over a rate set with the default withdrawal
// policy. The rate set is validated once here.
func NewEngine(rates *domain.RateSet) (*Engine, error) {
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate set: %w", err)
	}
	return &Engine{
		rates:  rates,
		policy: DefaultWithdrawalPolicy(),
		logger: NopLogger{},
	}, nil
}

// SetLogger replaces the engine's logger. Passing nil restores NopLogger.
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	e.logger = logger
}

// SetWithdrawalPolicy replaces the withdrawal ordering for subsequent runs.
func (e *Engine) SetWithdrawalPolicy(policy WithdrawalPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	e.policy = policy
	return nil
}

// Rates exposes the engine's rate set read-only.
func (e *Engine) Rates() *domain.RateSet {
	return e.rates
}

// RunScenario validates the scenario and simulates it year by year. The
// scenario is never mutated; each call produces fresh results.
func (e *Engine) RunScenario(scenario *domain.Scenario) (*domain.CalculationResults, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	taxes, err := NewTaxCalculator(e.rates, scenario.BasicInputs.Province)
	if err != nil {
		return nil, err
	}
	sequencer, err := NewWithdrawalSequencer(e.policy)
	if err != nil {
		return nil, err
	}

	run := scenario.Clone()
	run.Expenses.SortOverrides()

	e.logger.Debugf("running scenario %q: ages %d-%d, retirement at %d",
		run.Name, run.BasicInputs.CurrentAge, run.BasicInputs.LifeExpectancyAge, run.BasicInputs.RetirementAge)

	p := newProjector(run, taxes,
		NewBenefitCalculator(e.rates.CPP),
		NewBenefitCalculator(e.rates.OAS),
		NewMinimumWithdrawalRule(e.rates.MinimumWithdrawals),
		sequencer,
		e.logger)

	return p.run(), nil
}
