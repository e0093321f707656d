package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okunev/spotbooking/internal/domain"
)

var ErrReservationNotFound = errors.New("reservation not found")

type ReservationRepository interface {
	CreatePending(ctx context.Context, reservation *domain.Reservation) error
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, code string, status domain.ReservationStatus) (*domain.Reservation, error)
	// ListBlockingByResource returns all non-terminal reservations for a
	// resource in one query, so an availability check runs against a single
	// consistent snapshot.
	ListBlockingByResource(ctx context.Context, resourceID string) ([]domain.Reservation, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error)
	CompleteElapsedBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, resource_id, code, start_time, end_time, status, email, amount_paid, hold_expires_at, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := row.Scan(&r.ID, &r.ResourceID, &r.Code, &r.Interval.Start, &r.Interval.End, &r.Status, &r.Email, &r.AmountPaid, &r.HoldExpires, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *PGReservationRepository) CreatePending(ctx context.Context, reservation *domain.Reservation) error {
	reservation.Status = domain.ReservationStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO reservations (resource_id, code, start_time, end_time, status, email, amount_paid, hold_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		reservation.ResourceID, reservation.Code, reservation.Interval.Start, reservation.Interval.End,
		reservation.Status, reservation.Email, reservation.AmountPaid, reservation.HoldExpires).
		Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
}

func (r *PGReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE code=$1`, code))
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, code string, status domain.ReservationStatus) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE code=$2 RETURNING `+reservationColumns, status, code))
}

func (r *PGReservationRepository) ListBlockingByResource(ctx context.Context, resourceID string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE resource_id=$1 AND status = ANY($2)
		ORDER BY start_time`,
		resourceID, []string{
			string(domain.ReservationStatusPending),
			string(domain.ReservationStatusConfirmed),
			string(domain.ReservationStatusActive),
		})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *PGReservationRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `UPDATE reservations SET status=$1, updated_at=now()
		WHERE status=$2 AND hold_expires_at <= $3
		RETURNING `+reservationColumns,
		domain.ReservationStatusCancelled, domain.ReservationStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *res)
	}
	return expired, rows.Err()
}

func (r *PGReservationRepository) CompleteElapsedBefore(ctx context.Context, deadline time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE status=$2 AND end_time <= $3`,
		domain.ReservationStatusCompleted, domain.ReservationStatusActive, deadline)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
