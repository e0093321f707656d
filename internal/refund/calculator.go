// Package refund computes the refundable portion of a paid amount under a
// tiered cancellation policy. Pure calculation only: settlement against the
// payment provider is a downstream collaborator's job, and the fee breakdown
// is advisory display data, not an authoritative ledger.
package refund

import (
	"errors"
	"math"
	"time"

	"github.com/okunev/spotbooking/internal/domain"
)

// ErrMalformedAmount is returned for negative or non-finite amounts.
var ErrMalformedAmount = errors.New("original amount must be a non-negative finite number")

// Modeled marketplace fee rates, refunded in the same proportion as the
// policy's refund fraction.
const (
	PlatformFeeRate   = 0.05
	ProcessingFeeRate = 0.029
)

// Calculation is the derived refund quote. Never persisted.
type Calculation struct {
	OriginalAmount      float64 `json:"original_amount"`
	RefundAmount        float64 `json:"refund_amount"`
	CancellationFee     float64 `json:"cancellation_fee"`
	PlatformFeeRefund   float64 `json:"platform_fee_refund"`
	ProcessingFeeRefund float64 `json:"processing_fee_refund"`
	PolicyApplied       string  `json:"policy_applied"`
	HoursBeforeStart    float64 `json:"hours_before_start"`
}

// Calculate resolves the applicable policy rule for the cancellation moment
// and derives the refund and fee amounts. hoursBeforeStart may be negative
// (cancelling after the start), which resolves to the policy's floor rule.
// Rounding is half-away-from-zero to 2 decimals, applied once to each final
// field and never to intermediates, so errors do not compound.
func Calculate(originalAmount float64, startTime, cancellationTime time.Time, policy domain.CancellationPolicy) (*Calculation, error) {
	if originalAmount < 0 || math.IsNaN(originalAmount) || math.IsInf(originalAmount, 0) {
		return nil, ErrMalformedAmount
	}

	hoursBefore := startTime.Sub(cancellationTime).Hours()
	rule := policy.ApplicableRule(hoursBefore)

	refundAmount := round2(originalAmount * rule.RefundFraction)
	return &Calculation{
		OriginalAmount:      originalAmount,
		RefundAmount:        refundAmount,
		CancellationFee:     round2(originalAmount - refundAmount),
		PlatformFeeRefund:   round2(originalAmount * PlatformFeeRate * rule.RefundFraction),
		ProcessingFeeRefund: round2(originalAmount * ProcessingFeeRate * rule.RefundFraction),
		PolicyApplied:       policy.ID,
		HoursBeforeStart:    hoursBefore,
	}, nil
}

// round2 rounds half away from zero to 2 decimals, which is what math.Round
// does once scaled.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
