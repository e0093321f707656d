package availability

import (
	"time"

	"github.com/okunev/spotbooking/internal/domain"
)

const (
	DefaultMaxSuggestions = 3
	DefaultMaxProbes      = 4
)

// SuggestAlternatives probes intervals near a conflicting candidate and
// returns the ones that would be available, preserving the candidate's
// duration. Probes shift the window earlier by 1..maxProbes hours
// (nearest-first), then later by 1..maxProbes hours (nearest-first), and are
// collected in probe order until maxSuggestions are found or both ranges are
// exhausted. It ranks only by temporal proximity.
//
// Only worth calling when the original failure was a booking conflict:
// shifting the window cannot fix a past start or a closed schedule.
func SuggestAlternatives(resourceID string, candidate domain.TimeInterval, reservations []domain.Reservation, schedule domain.WeeklySchedule, now time.Time, maxSuggestions, maxProbes int) []domain.TimeInterval {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}

	shifts := make([]time.Duration, 0, 2*maxProbes)
	for h := 1; h <= maxProbes; h++ {
		shifts = append(shifts, -time.Duration(h)*time.Hour)
	}
	for h := 1; h <= maxProbes; h++ {
		shifts = append(shifts, time.Duration(h)*time.Hour)
	}

	var suggestions []domain.TimeInterval
	for _, shift := range shifts {
		probe := candidate.Shift(shift)
		if Check(resourceID, probe, reservations, schedule, now).Available {
			suggestions = append(suggestions, probe)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}
