package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a scenario field that violates an input invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %s %s", e.Field, e.Reason)
}

// ConfigurationError reports a malformed rate set or an unknown selector such
// as a variant kind or province code.
type ConfigurationError struct {
	Subject string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Subject, e.Reason)
}

// ConvergenceError is returned when the spending optimizer exhausts its
// iteration budget without bracketing the target within tolerance. It carries
// the last trial so callers can still inspect the best attempt.
type ConvergenceError struct {
	Iterations   int
	LastSpending decimal.Decimal
	LastBalance  decimal.Decimal
	Target       decimal.Decimal
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("optimizer did not converge after %d iterations: last spending %s produced terminal balance %s (target %s)",
		e.Iterations, e.LastSpending.StringFixed(2), e.LastBalance.StringFixed(2), e.Target.StringFixed(2))
}
