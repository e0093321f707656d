package refund

import (
	"math"
	"testing"
	"time"

	"github.com/okunev/spotbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func policy(t *testing.T, id string) domain.CancellationPolicy {
	t.Helper()
	p, err := domain.PolicyByID(id)
	assert.NoError(t, err)
	return p
}

func hoursBefore(start time.Time, hours float64) time.Time {
	return start.Add(-time.Duration(hours * float64(time.Hour)))
}

var start = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestCalculate_ReferenceScenarios(t *testing.T) {
	cases := []struct {
		name        string
		policyID    string
		amount      float64
		hoursBefore float64
		wantRefund  float64
		wantFee     float64
	}{
		{"flexible full refund at 30h", "flexible", 100, 30, 100, 0},
		{"flexible half refund at 12h", "flexible", 100, 12, 50, 50},
		{"flexible nothing inside the last hour", "flexible", 100, 0.5, 0, 100},
		{"moderate 75 percent at 30h", "moderate", 200, 30, 150, 50},
		{"moderate full refund at 72h", "moderate", 200, 72, 200, 0},
		{"strict half refund at 96h", "strict", 80, 96, 40, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc, err := Calculate(tc.amount, start, hoursBefore(start, tc.hoursBefore), policy(t, tc.policyID))
			assert.NoError(t, err)
			assert.Equal(t, tc.wantRefund, calc.RefundAmount)
			assert.Equal(t, tc.wantFee, calc.CancellationFee)
			assert.Equal(t, tc.policyID, calc.PolicyApplied)
			assert.InDelta(t, tc.hoursBefore, calc.HoursBeforeStart, 1e-9)
		})
	}
}

func TestCalculate_CancellingAfterStartFallsToFloor(t *testing.T) {
	calc, err := Calculate(100, start, start.Add(3*time.Hour), policy(t, "flexible"))
	assert.NoError(t, err)
	assert.Equal(t, 0.0, calc.RefundAmount)
	assert.Equal(t, 100.0, calc.CancellationFee)
	assert.Equal(t, -3.0, calc.HoursBeforeStart)
}

func TestCalculate_FeeBreakdownFollowsRefundFraction(t *testing.T) {
	// 50% refund: half the 5% platform fee and half the 2.9% processing fee
	// come back.
	calc, err := Calculate(100, start, hoursBefore(start, 12), policy(t, "flexible"))
	assert.NoError(t, err)
	assert.Equal(t, 2.5, calc.PlatformFeeRefund)
	assert.Equal(t, 1.45, calc.ProcessingFeeRefund)

	// Full refund refunds the full fees.
	calc, err = Calculate(100, start, hoursBefore(start, 30), policy(t, "flexible"))
	assert.NoError(t, err)
	assert.Equal(t, 5.0, calc.PlatformFeeRefund)
	assert.Equal(t, 2.9, calc.ProcessingFeeRefund)
}

func TestCalculate_RoundingHalfAwayFromZeroOncePerField(t *testing.T) {
	// 75% of 99.99 is 74.9925: rounded once to 74.99, and the fee is derived
	// from the rounded refund so the two always sum to the original amount.
	calc, err := Calculate(99.99, start, hoursBefore(start, 30), policy(t, "moderate"))
	assert.NoError(t, err)
	assert.Equal(t, 74.99, calc.RefundAmount)
	assert.Equal(t, 25.0, calc.CancellationFee)

	// 50% of 0.01 is 0.005: half away from zero rounds up.
	calc, err = Calculate(0.01, start, hoursBefore(start, 12), policy(t, "flexible"))
	assert.NoError(t, err)
	assert.Equal(t, 0.01, calc.RefundAmount)
	assert.Equal(t, 0.0, calc.CancellationFee)
}

func TestCalculate_RefundMonotonicInHoursBeforeStart(t *testing.T) {
	moderate := policy(t, "moderate")
	prev := -1.0
	for hours := -12.0; hours <= 96; hours += 0.5 {
		calc, err := Calculate(200, start, hoursBefore(start, hours), moderate)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, calc.RefundAmount, prev, "refund must not shrink as notice grows (hours=%v)", hours)
		prev = calc.RefundAmount
	}
}

func TestCalculate_RefundBounds(t *testing.T) {
	for _, id := range []string{"flexible", "moderate", "strict"} {
		p := policy(t, id)
		for hours := -24.0; hours <= 200; hours += 7 {
			calc, err := Calculate(123.45, start, hoursBefore(start, hours), p)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, calc.RefundAmount, 0.0)
			assert.LessOrEqual(t, calc.RefundAmount, 123.45)
		}
	}
}

func TestCalculate_MalformedAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
	}{
		{"negative", -1},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.amount, start, hoursBefore(start, 24), policy(t, "moderate"))
			assert.ErrorIs(t, err, ErrMalformedAmount)
		})
	}
}

func TestCalculate_ZeroAmount(t *testing.T) {
	calc, err := Calculate(0, start, hoursBefore(start, 24), policy(t, "moderate"))
	assert.NoError(t, err)
	assert.Equal(t, 0.0, calc.RefundAmount)
	assert.Equal(t, 0.0, calc.CancellationFee)
}
