package api

import (
	"fmt"

	"github.com/okunev/spotbooking/internal/availability"
	"github.com/okunev/spotbooking/internal/domain"
)

// reasonMessage renders a structured check result to a human-readable
// message. The engine itself only emits reason codes; wording lives here.
func reasonMessage(result *availability.Result) string {
	switch result.Reason {
	case availability.ReasonNone:
		return ""
	case availability.ReasonPastStartTime:
		return "start time must be in the future"
	case availability.ReasonBookingConflict:
		return "conflicts with existing bookings"
	case availability.ReasonScheduleClosed:
		return violationMessage(result.Violation)
	}
	return string(result.Reason)
}

func violationMessage(v *domain.ScheduleViolation) string {
	if v == nil {
		return "outside the resource's opening hours"
	}
	switch v.Kind {
	case domain.ViolationClosedDay:
		return fmt.Sprintf("not open on %s", v.Weekday)
	case domain.ViolationBlackoutDate:
		return fmt.Sprintf("closed on %s", v.Date)
	case domain.ViolationBeforeOpening:
		return fmt.Sprintf("opens at %s on %s", domain.ClockString(v.Open), v.Weekday)
	case domain.ViolationAfterClosing:
		return fmt.Sprintf("closes at %s on %s", domain.ClockString(v.Close), v.Weekday)
	}
	return "outside the resource's opening hours"
}
