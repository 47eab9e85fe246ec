package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

// AccountKind identifies one of the three account types in withdrawal order.
type AccountKind string

const (
	AccountTaxFree       AccountKind = "tax_free"
	AccountNonRegistered AccountKind = "non_registered"
	AccountTaxDeferred   AccountKind = "tax_deferred"
)

// WithdrawalPolicy is an explicit, ordered withdrawal strategy: accounts are
// drawn in Order until the funding gap is covered or every balance is
// exhausted. The mandatory minimum is always taken first, outside the order.
type WithdrawalPolicy struct {
	Order []AccountKind
}

// DefaultWithdrawalPolicy drains tax-free money first, then non-registered,
// and taps tax-deferred funds beyond the mandatory minimum only as a last
// resort.
func DefaultWithdrawalPolicy() WithdrawalPolicy {
	return WithdrawalPolicy{Order: []AccountKind{AccountTaxFree, AccountNonRegistered, AccountTaxDeferred}}
}

// Validate checks that the policy names each account kind exactly once.
func (p WithdrawalPolicy) Validate() error {
	if len(p.Order) != 3 {
		return &domain.ConfigurationError{Subject: "withdrawal_policy", Reason: "order must name all three account kinds"}
	}
	seen := map[AccountKind]bool{}
	for _, kind := range p.Order {
		switch kind {
		case AccountTaxFree, AccountNonRegistered, AccountTaxDeferred:
		default:
			return &domain.ConfigurationError{Subject: "withdrawal_policy", Reason: "unknown account kind " + string(kind)}
		}
		if seen[kind] {
			return &domain.ConfigurationError{Subject: "withdrawal_policy", Reason: "duplicate account kind " + string(kind)}
		}
		seen[kind] = true
	}
	return nil
}

// Balances is a snapshot of the three account balances available to the
// sequencer.
type Balances struct {
	TaxDeferred   decimal.Decimal
	TaxFree       decimal.Decimal
	NonRegistered decimal.Decimal
}

func (b Balances) of(kind AccountKind) decimal.Decimal {
	switch kind {
	case AccountTaxFree:
		return b.TaxFree
	case AccountNonRegistered:
		return b.NonRegistered
	default:
		return b.TaxDeferred
	}
}

// WithdrawalSet is the sequencer's output: the amount drawn from each
// account and any uncovered remainder. A positive Shortfall is an ordinary
// result, not an error.
type WithdrawalSet struct {
	TaxDeferred   decimal.Decimal
	TaxFree       decimal.Decimal
	NonRegistered decimal.Decimal
	Shortfall     decimal.Decimal
}

// Total returns the combined withdrawal across all accounts.
func (w WithdrawalSet) Total() decimal.Decimal {
	return w.TaxDeferred.Add(w.TaxFree).Add(w.NonRegistered)
}

// WithdrawalSequencer allocates a funding gap across accounts under a policy.
type WithdrawalSequencer struct {
	policy WithdrawalPolicy
}

// NewWithdrawalSequencer builds a sequencer for a validated policy.
func NewWithdrawalSequencer(policy WithdrawalPolicy) (*WithdrawalSequencer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &WithdrawalSequencer{policy: policy}, nil
}

// Sequence covers a funding gap. The mandatory minimum is withdrawn from the
// tax-deferred account unconditionally and counts toward the gap; the
// remainder is drawn in policy order, each account capped at its balance.
// Whatever cannot be covered is reported as Shortfall.
func (s *WithdrawalSequencer) Sequence(gap decimal.Decimal, balances Balances, mandatoryMin decimal.Decimal) WithdrawalSet {
	var out WithdrawalSet

	if mandatoryMin.IsPositive() {
		out.TaxDeferred = decimal.Min(mandatoryMin, balances.TaxDeferred)
		balances.TaxDeferred = balances.TaxDeferred.Sub(out.TaxDeferred)
	}

	remaining := gap.Sub(out.TaxDeferred)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return out
	}

	for _, kind := range s.policy.Order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		available := balances.of(kind)
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		draw := decimal.Min(remaining, available)
		remaining = remaining.Sub(draw)
		switch kind {
		case AccountTaxFree:
			out.TaxFree = out.TaxFree.Add(draw)
		case AccountNonRegistered:
			out.NonRegistered = out.NonRegistered.Add(draw)
		case AccountTaxDeferred:
			out.TaxDeferred = out.TaxDeferred.Add(draw)
		}
	}

	if remaining.IsPositive() {
		out.Shortfall = remaining
	}
	return out
}
