package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidPolicy = errors.New("invalid cancellation policy")

// PolicyRule grants RefundFraction of the paid amount when a cancellation
// happens at least HoursBeforeStart hours before the reservation starts.
type PolicyRule struct {
	HoursBeforeStart float64 `json:"hours_before_start"`
	RefundFraction   float64 `json:"refund_fraction"`
}

// CancellationPolicy is a named, ordered set of refund rules. Rules are kept
// sorted by descending threshold and always end with a floor rule at zero
// hours, so rule lookup is a single forward scan.
type CancellationPolicy struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Rules []PolicyRule `json:"rules"`
}

// NewCancellationPolicy validates the rule list once at construction:
// fractions within [0,1], thresholds strictly descending, floor rule present.
func NewCancellationPolicy(id, name string, rules []PolicyRule) (CancellationPolicy, error) {
	if len(rules) == 0 {
		return CancellationPolicy{}, fmt.Errorf("%w %q: no rules", ErrInvalidPolicy, id)
	}
	for i, r := range rules {
		if r.RefundFraction < 0 || r.RefundFraction > 1 {
			return CancellationPolicy{}, fmt.Errorf("%w %q: refund fraction %v out of range", ErrInvalidPolicy, id, r.RefundFraction)
		}
		if r.HoursBeforeStart < 0 {
			return CancellationPolicy{}, fmt.Errorf("%w %q: negative threshold %v", ErrInvalidPolicy, id, r.HoursBeforeStart)
		}
		if i > 0 && r.HoursBeforeStart >= rules[i-1].HoursBeforeStart {
			return CancellationPolicy{}, fmt.Errorf("%w %q: thresholds must be strictly descending", ErrInvalidPolicy, id)
		}
	}
	if rules[len(rules)-1].HoursBeforeStart != 0 {
		return CancellationPolicy{}, fmt.Errorf("%w %q: missing floor rule at 0h", ErrInvalidPolicy, id)
	}
	out := make([]PolicyRule, len(rules))
	copy(out, rules)
	return CancellationPolicy{ID: id, Name: name, Rules: out}, nil
}

// ApplicableRule returns the first rule whose threshold is met. A negative
// hoursBeforeStart (cancelling after the start) resolves to the floor rule.
func (p CancellationPolicy) ApplicableRule(hoursBeforeStart float64) PolicyRule {
	for _, r := range p.Rules {
		if hoursBeforeStart >= r.HoursBeforeStart {
			return r
		}
	}
	return p.Rules[len(p.Rules)-1]
}

func mustPolicy(id, name string, rules []PolicyRule) CancellationPolicy {
	p, err := NewCancellationPolicy(id, name, rules)
	if err != nil {
		panic(err)
	}
	return p
}

const DefaultPolicyID = "moderate"

// Built-in policies offered to resource owners. Moderate is the default when
// an owner has selected none.
var builtinPolicies = map[string]CancellationPolicy{
	"flexible": mustPolicy("flexible", "Flexible", []PolicyRule{
		{HoursBeforeStart: 24, RefundFraction: 1},
		{HoursBeforeStart: 1, RefundFraction: 0.5},
		{HoursBeforeStart: 0, RefundFraction: 0},
	}),
	"moderate": mustPolicy("moderate", "Moderate", []PolicyRule{
		{HoursBeforeStart: 48, RefundFraction: 1},
		{HoursBeforeStart: 24, RefundFraction: 0.75},
		{HoursBeforeStart: 6, RefundFraction: 0.25},
		{HoursBeforeStart: 0, RefundFraction: 0},
	}),
	"strict": mustPolicy("strict", "Strict", []PolicyRule{
		{HoursBeforeStart: 168, RefundFraction: 1},
		{HoursBeforeStart: 48, RefundFraction: 0.5},
		{HoursBeforeStart: 0, RefundFraction: 0},
	}),
}

var ErrUnknownPolicy = errors.New("unknown cancellation policy")

// PolicyByID looks up a built-in policy.
func PolicyByID(id string) (CancellationPolicy, error) {
	if p, ok := builtinPolicies[id]; ok {
		return p, nil
	}
	return CancellationPolicy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
}
