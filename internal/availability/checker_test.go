package availability

import (
	"testing"
	"time"

	"github.com/okunev/spotbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

const testResource = "spot-42"

func interval(t *testing.T, start, end string) domain.TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	assert.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	assert.NoError(t, err)
	iv, err := domain.NewInterval(s, e)
	assert.NoError(t, err)
	return iv
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return v
}

func alwaysOpen() domain.WeeklySchedule {
	var s domain.WeeklySchedule
	for wd := range s.Days {
		s.Days[wd] = domain.DayWindow{IsOpen: true, Open: 0, Close: 24 * 60}
	}
	return s
}

func reservation(t *testing.T, start, end string, status domain.ReservationStatus) domain.Reservation {
	t.Helper()
	return domain.Reservation{ResourceID: testResource, Interval: interval(t, start, end), Status: status}
}

func TestCheck_AvailableWhenNothingBlocks(t *testing.T) {
	result := Check(testResource,
		interval(t, "2025-06-02T09:00:00Z", "2025-06-02T11:00:00Z"),
		nil, alwaysOpen(), at(t, "2025-06-02T08:00:00Z"))

	assert.True(t, result.Available)
	assert.Equal(t, ReasonNone, result.Reason)
	assert.Empty(t, result.Conflicts)
}

func TestCheck_PastStartTime(t *testing.T) {
	candidate := interval(t, "2025-06-02T09:00:00Z", "2025-06-02T11:00:00Z")

	result := Check(testResource, candidate, nil, alwaysOpen(), at(t, "2025-06-02T10:00:00Z"))
	assert.False(t, result.Available)
	assert.Equal(t, ReasonPastStartTime, result.Reason)

	// Starting exactly at now is not strictly future.
	result = Check(testResource, candidate, nil, alwaysOpen(), at(t, "2025-06-02T09:00:00Z"))
	assert.Equal(t, ReasonPastStartTime, result.Reason)
}

func TestCheck_CollectsAllConflicts(t *testing.T) {
	candidate := interval(t, "2025-06-01T09:00:00Z", "2025-06-01T11:00:00Z")
	reservations := []domain.Reservation{
		reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusConfirmed),
		reservation(t, "2025-06-01T08:30:00Z", "2025-06-01T09:30:00Z", domain.ReservationStatusPending),
		reservation(t, "2025-06-01T10:30:00Z", "2025-06-01T11:30:00Z", domain.ReservationStatusActive),
	}

	result := Check(testResource, candidate, reservations, alwaysOpen(), at(t, "2025-06-01T07:00:00Z"))

	assert.False(t, result.Available)
	assert.Equal(t, ReasonBookingConflict, result.Reason)
	assert.Len(t, result.Conflicts, 3, "every overlapping reservation is reported, not just the first")
}

func TestCheck_IgnoresTerminalTouchingAndForeignReservations(t *testing.T) {
	candidate := interval(t, "2025-06-01T09:00:00Z", "2025-06-01T11:00:00Z")
	reservations := []domain.Reservation{
		reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusCancelled),
		reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusCompleted),
		// Touching endpoint, half-open semantics.
		reservation(t, "2025-06-01T11:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusConfirmed),
		{ResourceID: "spot-7", Interval: interval(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z"), Status: domain.ReservationStatusConfirmed},
	}

	result := Check(testResource, candidate, reservations, alwaysOpen(), at(t, "2025-06-01T07:00:00Z"))
	assert.True(t, result.Available)
}

func TestCheck_ScenarioConfirmedOverlap(t *testing.T) {
	// Candidate [09:00,11:00) vs one confirmed reservation [10:00,12:00)
	// on the same resource.
	candidate := interval(t, "2025-06-01T09:00:00Z", "2025-06-01T11:00:00Z")
	existing := reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusConfirmed)

	result := Check(testResource, candidate, []domain.Reservation{existing}, alwaysOpen(), at(t, "2025-06-01T07:00:00Z"))

	assert.False(t, result.Available)
	assert.Equal(t, ReasonBookingConflict, result.Reason)
	assert.Equal(t, []Conflict{{Interval: existing.Interval, Status: existing.Status}}, result.Conflicts)
}

func TestCheck_ScheduleShortCircuitsBeforeConflictScan(t *testing.T) {
	// Same candidate and conflicting reservation, but Sunday 2025-06-01 is
	// marked not open: the schedule reason wins and no conflicts are listed.
	candidate := interval(t, "2025-06-01T09:00:00Z", "2025-06-01T11:00:00Z")
	existing := reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusConfirmed)

	schedule := alwaysOpen()
	schedule.Days[time.Sunday] = domain.DayWindow{}

	result := Check(testResource, candidate, []domain.Reservation{existing}, schedule, at(t, "2025-06-01T07:00:00Z"))

	assert.False(t, result.Available)
	assert.Equal(t, ReasonScheduleClosed, result.Reason)
	assert.NotNil(t, result.Violation)
	assert.Equal(t, domain.ViolationClosedDay, result.Violation.Kind)
	assert.Empty(t, result.Conflicts)
}

func TestCheck_Deterministic(t *testing.T) {
	candidate := interval(t, "2025-06-01T09:00:00Z", "2025-06-01T11:00:00Z")
	reservations := []domain.Reservation{
		reservation(t, "2025-06-01T10:00:00Z", "2025-06-01T12:00:00Z", domain.ReservationStatusConfirmed),
	}
	now := at(t, "2025-06-01T07:00:00Z")

	first := Check(testResource, candidate, reservations, alwaysOpen(), now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Check(testResource, candidate, reservations, alwaysOpen(), now))
	}
}
