// Package availability holds the pure conflict-detection core: given a
// candidate interval, a snapshot of existing reservations and the resource's
// weekly schedule, it decides whether a request can proceed. Nothing here
// performs I/O or keeps state, so callers may invoke it concurrently without
// coordination; the snapshot's consistency is the caller's responsibility.
package availability

import (
	"time"

	"github.com/okunev/spotbooking/internal/domain"
)

// Reason classifies why a candidate was rejected. Human-readable rendering
// lives in the presentation layer, not here.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonPastStartTime   Reason = "past_start_time"
	ReasonScheduleClosed  Reason = "schedule_closed"
	ReasonBookingConflict Reason = "booking_conflict"
)

// Conflict is one existing reservation whose interval overlaps the candidate.
type Conflict struct {
	Interval domain.TimeInterval      `json:"interval"`
	Status   domain.ReservationStatus `json:"status"`
}

// Result is the ephemeral outcome of one availability check.
type Result struct {
	Available bool                      `json:"available"`
	Reason    Reason                    `json:"reason,omitempty"`
	Violation *domain.ScheduleViolation `json:"violation,omitempty"`
	Conflicts []Conflict                `json:"conflicts,omitempty"`
}

// Check runs the availability decision for one candidate interval. Checks run
// in a fixed order and the first failure is the sole reported reason:
//
//  1. the candidate must start strictly in the future;
//  2. the schedule must be open across every instant the candidate spans;
//  3. no blocking reservation for the same resource may overlap it.
//
// Input-shape failures (past start, closed schedule) are checked before the
// conflict scan so a caller mistake is never masked by an "already booked"
// answer that depends on current load. A conflict failure reports every
// overlapping reservation, not just the first.
func Check(resourceID string, candidate domain.TimeInterval, reservations []domain.Reservation, schedule domain.WeeklySchedule, now time.Time) Result {
	if !candidate.Start.After(now) {
		return Result{Reason: ReasonPastStartTime}
	}

	if v := schedule.CheckSpan(candidate); v != nil {
		return Result{Reason: ReasonScheduleClosed, Violation: v}
	}

	var conflicts []Conflict
	for _, r := range reservations {
		if r.ResourceID != resourceID || !r.Status.Blocking() {
			continue
		}
		if r.Interval.Overlaps(candidate) {
			conflicts = append(conflicts, Conflict{Interval: r.Interval, Status: r.Status})
		}
	}
	if len(conflicts) > 0 {
		return Result{Reason: ReasonBookingConflict, Conflicts: conflicts}
	}

	return Result{Available: true}
}
