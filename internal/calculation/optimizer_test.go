package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retirewise/planner/internal/domain"
)

func TestOptimizerRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	optimizer := NewSpendingOptimizer(engine)

	baseline := singleAccountScenario()
	result, err := optimizer.Optimize(context.Background(), baseline, OptimizerOptions{})
	require.NoError(t, err)
	require.True(t, result.Converged)

	// Re-running the engine at the converged spending level must land within
	// tolerance of the target on its own.
	check := baseline.Clone()
	check.Expenses.FixedMonthly = result.MonthlySpending
	results, err := engine.RunScenario(check)
	require.NoError(t, err)

	diff := results.FinalPortfolioValue.Sub(result.Target).Abs()
	assert.True(t, diff.LessThanOrEqual(defaultTolerance),
		"round trip diverged: final balance %s vs target %s", results.FinalPortfolioValue, result.Target)
}

func TestOptimizerLegacyFraction(t *testing.T) {
	engine := newTestEngine(t)
	optimizer := NewSpendingOptimizer(engine)

	baseline := singleAccountScenario()
	result, err := optimizer.Optimize(context.Background(), baseline, OptimizerOptions{
		LegacyFraction: decimal.NewFromFloat(0.5),
	})
	require.NoError(t, err)
	require.True(t, result.Converged)

	expectedTarget := decimal.NewFromInt(250000)
	assert.True(t, result.Target.Equal(expectedTarget))
	diff := result.FinalBalance.Sub(expectedTarget).Abs()
	assert.True(t, diff.LessThanOrEqual(defaultTolerance))

	// Preserving half the portfolio must cost spending versus exhausting it.
	exhaust, err := optimizer.Optimize(context.Background(), baseline, OptimizerOptions{})
	require.NoError(t, err)
	assert.True(t, result.MonthlySpending.LessThan(exhaust.MonthlySpending))
}

func TestOptimizerSpendingMonotonicity(t *testing.T) {
	engine := newTestEngine(t)
	baseline := singleAccountScenario()

	finalAt := func(monthly int64) decimal.Decimal {
		s := baseline.Clone()
		s.Expenses.FixedMonthly = decimal.NewFromInt(monthly)
		results, err := engine.RunScenario(s)
		require.NoError(t, err)
		return results.FinalPortfolioValue
	}

	assert.True(t, finalAt(1000).GreaterThan(finalAt(3000)))
	assert.True(t, finalAt(3000).GreaterThanOrEqual(finalAt(6000)))
}

func TestOptimizerBudgetExhaustion(t *testing.T) {
	engine := newTestEngine(t)
	optimizer := NewSpendingOptimizer(engine)

	result, err := optimizer.Optimize(context.Background(), singleAccountScenario(), OptimizerOptions{
		MaxIterations: 2,
		Tolerance:     decimal.NewFromFloat(0.000001),
	})
	require.Error(t, err)

	var convErr *domain.ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 2, convErr.Iterations)

	// The best trial is still reported so the caller can decide.
	require.NotNil(t, result)
	assert.False(t, result.Converged)
	assert.Equal(t, 2, result.Iterations)
}

func TestOptimizerCancellation(t *testing.T) {
	engine := newTestEngine(t)
	optimizer := NewSpendingOptimizer(engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := optimizer.Optimize(ctx, singleAccountScenario(), OptimizerOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.False(t, result.Converged)
}

func TestOptimizerRejectsInvalidScenario(t *testing.T) {
	engine := newTestEngine(t)
	optimizer := NewSpendingOptimizer(engine)

	scenario := singleAccountScenario()
	scenario.BasicInputs.LifeExpectancyAge = 30

	_, err := optimizer.Optimize(context.Background(), scenario, OptimizerOptions{})
	require.Error(t, err)

	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
