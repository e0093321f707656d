package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is returned when a weekday window is open but its
// open/close minutes do not form a valid range.
var ErrInvalidSchedule = errors.New("open weekday requires open < close")

const minutesPerDay = 24 * 60

// DayWindow is the open window for one weekday, in minutes since midnight.
// Close may be 1440 to mean end of day.
type DayWindow struct {
	IsOpen bool `json:"is_open"`
	Open   int  `json:"open"`
	Close  int  `json:"close"`
}

// WeeklySchedule describes when a resource accepts reservations: one window
// per weekday (indexed by time.Weekday, Sunday=0) plus blackout calendar
// dates in YYYY-MM-DD form. All instants handed to it are expected to be in
// the resource's timezone.
type WeeklySchedule struct {
	Days      [7]DayWindow `json:"days"`
	Blackouts []string     `json:"blackouts,omitempty"`
}

// Validate checks the open-implies-valid-window invariant. Schedules loaded
// from storage are validated once here, not on every evaluation.
func (s WeeklySchedule) Validate() error {
	for wd, w := range s.Days {
		if !w.IsOpen {
			continue
		}
		if w.Open < 0 || w.Close > minutesPerDay || w.Open >= w.Close {
			return fmt.Errorf("%w: %s", ErrInvalidSchedule, time.Weekday(wd))
		}
	}
	return nil
}

// ViolationKind identifies which schedule boundary a candidate crossed.
type ViolationKind string

const (
	ViolationClosedDay     ViolationKind = "closed_day"
	ViolationBlackoutDate  ViolationKind = "blackout_date"
	ViolationBeforeOpening ViolationKind = "before_opening"
	ViolationAfterClosing  ViolationKind = "after_closing"
)

// ScheduleViolation is the structured detail of a failed schedule check.
// Rendering it to a user-facing message is the presentation layer's job.
type ScheduleViolation struct {
	Kind    ViolationKind `json:"kind"`
	Weekday time.Weekday  `json:"weekday"`
	Date    string        `json:"date,omitempty"`
	Open    int           `json:"open,omitempty"`
	Close   int           `json:"close,omitempty"`
}

// OpenAt reports whether the resource is open at the given instant.
// Fails closed: a blackout date, a closed weekday or a time outside
// [open, close) all return false.
func (s WeeklySchedule) OpenAt(t time.Time) bool {
	if s.isBlackout(t) {
		return false
	}
	w := s.Days[int(t.Weekday())]
	if !w.IsOpen {
		return false
	}
	m := minuteOfDay(t)
	return m >= w.Open && m < w.Close
}

// CheckSpan verifies that every instant of the candidate interval falls
// inside an open window. It walks the calendar dates the interval touches
// and returns the first violation, or nil when the whole span is open.
func (s WeeklySchedule) CheckSpan(iv TimeInterval) *ScheduleViolation {
	for day := startOfDay(iv.Start); day.Before(iv.End); day = day.AddDate(0, 0, 1) {
		nextDay := day.AddDate(0, 0, 1)
		segStart := iv.Start
		if day.After(segStart) {
			segStart = day
		}
		segEnd := iv.End
		if nextDay.Before(segEnd) {
			segEnd = nextDay
		}
		if !segStart.Before(segEnd) {
			continue
		}

		if s.isBlackout(day) {
			return &ScheduleViolation{Kind: ViolationBlackoutDate, Weekday: day.Weekday(), Date: day.Format(dateLayout)}
		}
		w := s.Days[int(day.Weekday())]
		if !w.IsOpen {
			return &ScheduleViolation{Kind: ViolationClosedDay, Weekday: day.Weekday()}
		}
		if minuteOfDay(segStart) < w.Open {
			return &ScheduleViolation{Kind: ViolationBeforeOpening, Weekday: day.Weekday(), Open: w.Open, Close: w.Close}
		}
		endMin := minuteOfDay(segEnd)
		// A sub-minute tail still occupies the next minute.
		if segEnd.Second() > 0 || segEnd.Nanosecond() > 0 {
			endMin++
		}
		if endMin == 0 && segEnd.Equal(nextDay) {
			endMin = minutesPerDay
		}
		if endMin > w.Close {
			return &ScheduleViolation{Kind: ViolationAfterClosing, Weekday: day.Weekday(), Open: w.Open, Close: w.Close}
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

func (s WeeklySchedule) isBlackout(t time.Time) bool {
	key := t.Format(dateLayout)
	for _, d := range s.Blackouts {
		if d == key {
			return true
		}
	}
	return false
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockString formats minutes since midnight as HH:MM for display.
func ClockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
