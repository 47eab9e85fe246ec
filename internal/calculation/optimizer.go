package calculation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

const defaultMaxIterations = 100

var (
	defaultTolerance = decimal.NewFromInt(1000)
	two              = decimal.NewFromInt(2)
)

// OptimizerOptions tunes the spending search. Zero values select defaults:
// target balance zero (exhaust the portfolio), tolerance $1,000, budget of
// 100 engine evaluations.
type OptimizerOptions struct {
	// TargetBalance is the desired terminal portfolio value.
	TargetBalance decimal.Decimal
	// LegacyFraction, when positive, overrides TargetBalance with the given
	// fraction of the scenario's starting portfolio.
	LegacyFraction decimal.Decimal
	// Tolerance is the acceptable absolute distance from the target.
	Tolerance decimal.Decimal
	// MaxIterations bounds the number of engine evaluations.
	MaxIterations int
}

// OptimizedSpending is the search outcome: the sustainable fixed monthly
// spending level and the projection it produced.
type OptimizedSpending struct {
	MonthlySpending decimal.Decimal
	FinalBalance    decimal.Decimal
	Target          decimal.Decimal
	Iterations      int
	Converged       bool
	Results         *domain.CalculationResults
}

// SpendingOptimizer searches for the fixed monthly spending level whose
// projection ends at a target terminal balance. Final balance is monotonically
// decreasing in spending, so bisection is well-posed.
type SpendingOptimizer struct {
	engine *Engine
	logger Logger
}

// NewSpendingOptimizer wraps an engine.
func NewSpendingOptimizer(engine *Engine) *SpendingOptimizer {
	return &SpendingOptimizer{engine: engine, logger: NopLogger{}}
}

// SetLogger replaces the optimizer's logger. Passing nil restores NopLogger.
func (o *SpendingOptimizer) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	o.logger = logger
}

// Optimize runs the bisection search. Cancellation is honored between
// iterations: the best trial so far is returned tagged non-converged along
// with the context's error. An exhausted budget returns the best trial
// alongside a *domain.ConvergenceError; the caller decides whether the
// approximation is acceptable.
func (o *SpendingOptimizer) Optimize(ctx context.Context, baseline *domain.Scenario, opts OptimizerOptions) (*OptimizedSpending, error) {
	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	target := opts.TargetBalance
	if opts.LegacyFraction.IsPositive() {
		target = baseline.Assets.TotalBalance().Mul(opts.LegacyFraction)
	}
	tolerance := opts.Tolerance
	if !tolerance.IsPositive() {
		tolerance = defaultTolerance
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	search := &spendingSearch{
		optimizer: o,
		baseline:  baseline,
		target:    target,
		tolerance: tolerance,
		budget:    maxIterations,
	}
	return search.run(ctx)
}

// spendingSearch carries the state of one Optimize call.
type spendingSearch struct {
	optimizer *SpendingOptimizer
	baseline  *domain.Scenario
	target    decimal.Decimal
	tolerance decimal.Decimal
	budget    int

	iterations int
	best       *OptimizedSpending
}

func (s *spendingSearch) run(ctx context.Context) (*OptimizedSpending, error) {
	low := decimal.Zero
	high := s.baseline.Expenses.FixedMonthly
	if !high.IsPositive() {
		high = decimal.NewFromInt(1000)
	}

	// Expand the upper bound until it overshoots the target, so the answer
	// is bracketed before bisection starts.
	for s.iterations < s.budget {
		if err := s.checkContext(ctx); err != nil {
			return s.nonConverged(), err
		}
		trial, err := s.evaluate(high)
		if err != nil {
			return nil, err
		}
		if s.accept(trial) {
			return trial, nil
		}
		if s.overshoot(trial) {
			break
		}
		low = high
		high = high.Mul(two)
	}

	for s.iterations < s.budget {
		if err := s.checkContext(ctx); err != nil {
			return s.nonConverged(), err
		}
		mid := low.Add(high).Div(two)
		trial, err := s.evaluate(mid)
		if err != nil {
			return nil, err
		}
		if s.accept(trial) {
			return trial, nil
		}
		if s.overshoot(trial) {
			high = mid
		} else {
			low = mid
		}
	}

	result := s.nonConverged()
	return result, &domain.ConvergenceError{
		Iterations:   s.iterations,
		LastSpending: result.MonthlySpending,
		LastBalance:  result.FinalBalance,
		Target:       s.target,
	}
}

// evaluate runs one trial spending level through the engine and tracks the
// closest trial seen so far.
func (s *spendingSearch) evaluate(monthly decimal.Decimal) (*OptimizedSpending, error) {
	scenario := s.baseline.Clone()
	scenario.Expenses.FixedMonthly = monthly

	results, err := s.optimizer.engine.RunScenario(scenario)
	if err != nil {
		return nil, err
	}
	s.iterations++

	trial := &OptimizedSpending{
		MonthlySpending: monthly,
		FinalBalance:    results.FinalPortfolioValue,
		Target:          s.target,
		Iterations:      s.iterations,
		Results:         results,
	}
	s.optimizer.logger.Debugf("optimizer iteration %d: spending %s -> final balance %s",
		s.iterations, monthly.StringFixed(2), trial.FinalBalance.StringFixed(2))

	if s.best == nil || s.better(trial, s.best) {
		s.best = trial
	}
	return trial, nil
}

// better prefers depletion-free trials, then proximity to the target.
func (s *spendingSearch) better(a, b *OptimizedSpending) bool {
	if a.Results.Depleted() != b.Results.Depleted() {
		return !a.Results.Depleted()
	}
	return a.distance(s.target).LessThan(b.distance(s.target))
}

// overshoot reports whether a trial spent too much: either the final balance
// fell below the target or the portfolio depleted outright. Depletion floors
// the final balance at zero, so it must count as overshoot even when the
// target itself is zero.
func (s *spendingSearch) overshoot(trial *OptimizedSpending) bool {
	return trial.Results.Depleted() || trial.FinalBalance.LessThan(s.target)
}

// accept marks a trial converged when it lands within tolerance of the
// target without running out of money along the way.
func (s *spendingSearch) accept(trial *OptimizedSpending) bool {
	if trial.Results.Depleted() || trial.distance(s.target).GreaterThan(s.tolerance) {
		return false
	}
	trial.Converged = true
	s.optimizer.logger.Infof("optimizer converged after %d iterations: monthly spending %s",
		s.iterations, trial.MonthlySpending.StringFixed(2))
	return true
}

func (s *spendingSearch) checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

// nonConverged returns the best trial so far, explicitly tagged.
func (s *spendingSearch) nonConverged() *OptimizedSpending {
	if s.best == nil {
		return &OptimizedSpending{Target: s.target, Iterations: s.iterations}
	}
	out := *s.best
	out.Converged = false
	out.Iterations = s.iterations
	return &out
}

func (t *OptimizedSpending) distance(target decimal.Decimal) decimal.Decimal {
	return t.FinalBalance.Sub(target).Abs()
}
