package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Blocking reports whether a reservation in this status still occupies its
// slot. Completed and cancelled reservations never count toward conflicts.
func (s ReservationStatus) Blocking() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusActive:
		return true
	}
	return false
}

type Reservation struct {
	ID          int64
	ResourceID  string
	Code        string
	Interval    TimeInterval
	Status      ReservationStatus
	Email       string
	AmountPaid  float64
	HoldExpires time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Resource is the bookable asset with its owner-configured schedule and
// cancellation policy choice.
type Resource struct {
	ID        string
	Name      string
	PolicyID  string
	Schedule  WeeklySchedule
	CreatedAt time.Time
	UpdatedAt time.Time
}
