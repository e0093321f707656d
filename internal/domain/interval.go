package domain

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval's start is not before its end.
var ErrInvalidInterval = errors.New("interval start must be before end")

// TimeInterval is a half-open time range [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval validates and builds a half-open interval.
func NewInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the interval length.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// DurationHours returns the interval length as a fractional hour count.
func (i TimeInterval) DurationHours() float64 {
	return i.End.Sub(i.Start).Hours()
}

// Shift returns the interval moved by d, preserving its duration.
func (i TimeInterval) Shift(d time.Duration) TimeInterval {
	return TimeInterval{Start: i.Start.Add(d), End: i.End.Add(d)}
}
