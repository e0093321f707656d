package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/okunev/spotbooking/internal/availability"
	"github.com/okunev/spotbooking/internal/domain"
	"github.com/okunev/spotbooking/internal/kafka"
	"github.com/okunev/spotbooking/internal/refund"
	"github.com/okunev/spotbooking/internal/repository"
)

var (
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrSlotHeld        = errors.New("slot is held by another request")
	ErrNotPending      = errors.New("reservation is not pending")
)

type BookingUseCase interface {
	QueryAvailability(ctx context.Context, query AvailabilityQuery) (*AvailabilityReport, error)
	QueryRefund(ctx context.Context, query RefundQuery) (*refund.Calculation, error)
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, code string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, code string) (*domain.Reservation, *refund.Calculation, error)
	ExpirePendingReservations(ctx context.Context) ([]domain.Reservation, error)
	CompleteElapsedReservations(ctx context.Context) (int64, error)
}

type Cache interface {
	GetResource(ctx context.Context, id string) (*domain.Resource, error)
	SetResource(ctx context.Context, resource *domain.Resource) error
	AcquireSlotHold(ctx context.Context, resourceID string, start time.Time, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, resourceID string, start time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	reservations       repository.ReservationRepository
	resources          repository.ResourceRepository
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	settlementTopic    string
	holdTTL            time.Duration
	maxSuggestions     int
	maxProbes          int
	defaultPolicyID    string
}

// AvailabilityQuery asks whether a candidate interval can be reserved.
// Now is optional; zero means the wall clock.
type AvailabilityQuery struct {
	ResourceID string
	Candidate  domain.TimeInterval
	Now        time.Time
}

// AvailabilityReport is the merged coordinator response: the check result
// plus, when the failure was conflict-based, nearby alternative slots.
type AvailabilityReport struct {
	availability.Result
	Suggestions []domain.TimeInterval `json:"suggestions,omitempty"`
}

// RefundQuery asks what a cancellation at CancellationTime would refund.
// CancellationTime zero means the wall clock; PolicyID empty means the
// configured default.
type RefundQuery struct {
	OriginalAmount   float64
	StartTime        time.Time
	CancellationTime time.Time
	PolicyID         string
}

type CreateReservationInput struct {
	ResourceID string  `json:"resource_id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Email      string  `json:"email"`
	Amount     float64 `json:"amount"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithSettlementTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.settlementTopic = topic
	}
}

func NewBookingService(
	reservations repository.ReservationRepository,
	resources repository.ResourceRepository,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	holdTTL time.Duration,
	maxSuggestions, maxProbes int,
	defaultPolicyID string,
	opts ...BookingServiceOption,
) *BookingService {
	if maxSuggestions <= 0 {
		maxSuggestions = availability.DefaultMaxSuggestions
	}
	if maxProbes <= 0 {
		maxProbes = availability.DefaultMaxProbes
	}
	if defaultPolicyID == "" {
		defaultPolicyID = domain.DefaultPolicyID
	}
	service := &BookingService{
		reservations:      reservations,
		resources:         resources,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		holdTTL:           holdTTL,
		maxSuggestions:    maxSuggestions,
		maxProbes:         maxProbes,
		defaultPolicyID:   defaultPolicyID,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// QueryAvailability runs the conflict detector against one snapshot of the
// resource's blocking reservations. When the failure is conflict-based it
// also probes for nearby alternatives over the same snapshot, so the merged
// response is internally consistent. Read-only: nothing is reserved here.
func (s *BookingService) QueryAvailability(ctx context.Context, query AvailabilityQuery) (*AvailabilityReport, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	resource, err := s.loadResource(ctx, query.ResourceID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.reservations.ListBlockingByResource(ctx, query.ResourceID)
	if err != nil {
		return nil, err
	}

	report := &AvailabilityReport{
		Result: availability.Check(query.ResourceID, query.Candidate, snapshot, resource.Schedule, now),
	}
	if report.Reason == availability.ReasonBookingConflict {
		report.Suggestions = availability.SuggestAlternatives(query.ResourceID, query.Candidate, snapshot, resource.Schedule, now, s.maxSuggestions, s.maxProbes)
	}
	return report, nil
}

// QueryRefund computes a refund quote. An unknown policy id degrades to the
// default policy with a log line instead of blocking the cancellation flow.
func (s *BookingService) QueryRefund(ctx context.Context, query RefundQuery) (*refund.Calculation, error) {
	cancelAt := query.CancellationTime
	if cancelAt.IsZero() {
		cancelAt = time.Now().UTC()
	}
	policy := s.resolvePolicy(query.PolicyID)
	return refund.Calculate(query.OriginalAmount, query.StartTime, cancelAt, policy)
}

// CreateReservation inserts a pending reservation after re-running the
// availability check over a fresh snapshot, guarded by a redis slot hold so
// two racing callers cannot both pass the check for the same start.
func (s *BookingService) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if input.Amount < 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, refund.ErrMalformedAmount
	}
	candidate, err := parseInterval(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	report, err := s.QueryAvailability(ctx, AvailabilityQuery{ResourceID: input.ResourceID, Candidate: candidate})
	if err != nil {
		return nil, err
	}
	if !report.Available {
		return nil, ErrSlotUnavailable
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSlotHold(ctx, input.ResourceID, candidate.Start, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSlotHeld
		}
		held = true
	}

	reservation := &domain.Reservation{
		ResourceID:  input.ResourceID,
		Code:        uuid.NewString(),
		Interval:    candidate,
		Email:       input.Email,
		AmountPaid:  input.Amount,
		HoldExpires: time.Now().UTC().Add(s.holdTTL),
	}
	if err := s.reservations.CreatePending(ctx, reservation); err != nil {
		if held {
			_ = s.cache.ReleaseSlotHold(ctx, input.ResourceID, candidate.Start)
		}
		return nil, err
	}

	if err := s.publish(ctx, "reservation_created", reservation, 0); err != nil {
		log.Printf("WARNING: failed to publish reservation_created for %s: %v", reservation.Code, err)
	}
	return reservation, nil
}

func (s *BookingService) ConfirmReservation(ctx context.Context, code string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.ReservationStatusPending {
		return nil, ErrNotPending
	}

	updated, err := s.reservations.UpdateStatus(ctx, code, domain.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "reservation_confirmed", updated, 0); err != nil {
		log.Printf("WARNING: failed to publish reservation_confirmed for %s: %v", updated.Code, err)
	}
	if s.cache != nil {
		_ = s.cache.ReleaseSlotHold(ctx, updated.ResourceID, updated.Interval.Start)
	}
	return updated, nil
}

// CancelReservation transitions a reservation to cancelled and quotes the
// refund under the resource's policy. The quote is published to the
// settlement topic; capturing the money back is the settlement service's
// job. Cancelling an already-terminal reservation is a no-op.
func (s *BookingService) CancelReservation(ctx context.Context, code string) (*domain.Reservation, *refund.Calculation, error) {
	current, err := s.reservations.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if current.Status == domain.ReservationStatusCancelled || current.Status == domain.ReservationStatusCompleted {
		return current, nil, nil
	}

	policyID := s.defaultPolicyID
	if resource, err := s.loadResource(ctx, current.ResourceID); err == nil && resource.PolicyID != "" {
		policyID = resource.PolicyID
	}
	calc, err := refund.Calculate(current.AmountPaid, current.Interval.Start, time.Now().UTC(), s.resolvePolicy(policyID))
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.reservations.UpdateStatus(ctx, code, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, nil, err
	}
	if err := s.publish(ctx, "reservation_cancelled", updated, calc.RefundAmount); err != nil {
		log.Printf("WARNING: failed to publish reservation_cancelled for %s: %v", updated.Code, err)
	}
	if s.cache != nil {
		_ = s.cache.ReleaseSlotHold(ctx, updated.ResourceID, updated.Interval.Start)
	}
	return updated, calc, nil
}

// ExpirePendingReservations cancels pending reservations whose hold lapsed
// without confirmation. Run periodically by the worker.
func (s *BookingService) ExpirePendingReservations(ctx context.Context) ([]domain.Reservation, error) {
	expired, err := s.reservations.ExpirePendingBefore(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	for _, r := range expired {
		_ = s.publish(ctx, "reservation_expired", &r, 0)
		if s.cache != nil {
			_ = s.cache.ReleaseSlotHold(ctx, r.ResourceID, r.Interval.Start)
		}
	}
	return expired, nil
}

// CompleteElapsedReservations marks active reservations past their end time
// as completed. Run periodically by the worker.
func (s *BookingService) CompleteElapsedReservations(ctx context.Context) (int64, error) {
	return s.reservations.CompleteElapsedBefore(ctx, time.Now().UTC())
}

func (s *BookingService) loadResource(ctx context.Context, id string) (*domain.Resource, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetResource(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetResource(ctx, resource)
	}
	return resource, nil
}

func (s *BookingService) resolvePolicy(id string) domain.CancellationPolicy {
	if id == "" {
		id = s.defaultPolicyID
	}
	policy, err := domain.PolicyByID(id)
	if err != nil {
		log.Printf("unknown cancellation policy %q, falling back to %q", id, s.defaultPolicyID)
		policy, err = domain.PolicyByID(s.defaultPolicyID)
		if err != nil {
			policy, _ = domain.PolicyByID(domain.DefaultPolicyID)
		}
	}
	return policy
}

func (s *BookingService) publish(ctx context.Context, eventType string, reservation *domain.Reservation, refundAmount float64) error {
	if s.producer == nil || s.reservationsTopic == "" {
		return nil
	}
	event := kafka.ReservationEvent{
		Type:         eventType,
		Code:         reservation.Code,
		ResourceID:   reservation.ResourceID,
		Start:        reservation.Interval.Start,
		End:          reservation.Interval.End,
		Email:        reservation.Email,
		Status:       string(reservation.Status),
		RefundAmount: refundAmount,
	}
	if err := s.producer.Publish(ctx, s.reservationsTopic, reservation.Code, event); err != nil {
		return err
	}
	if eventType == "reservation_cancelled" && s.settlementTopic != "" {
		if err := s.producer.Publish(ctx, s.settlementTopic, reservation.Code, event); err != nil {
			return err
		}
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, reservation.Code, event)
	}
	return nil
}

func parseInterval(start, end string) (domain.TimeInterval, error) {
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return domain.TimeInterval{}, errors.New("start must be an RFC3339 timestamp")
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return domain.TimeInterval{}, errors.New("end must be an RFC3339 timestamp")
	}
	return domain.NewInterval(startAt, endAt)
}

var _ BookingUseCase = (*BookingService)(nil)
