package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okunev/spotbooking/internal/domain"
)

var ErrResourceNotFound = errors.New("resource not found")

type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
}

type PGResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) ResourceRepository {
	return &PGResourceRepository{db: db}
}

func (r *PGResourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, policy_id, schedule, created_at, updated_at FROM resources WHERE id=$1`, id)

	var (
		res         domain.Resource
		scheduleRaw []byte
	)
	if err := row.Scan(&res.ID, &res.Name, &res.PolicyID, &scheduleRaw, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(scheduleRaw, &res.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule for resource %s: %w", id, err)
	}
	if err := res.Schedule.Validate(); err != nil {
		return nil, fmt.Errorf("resource %s: %w", id, err)
	}
	return &res, nil
}

var _ ResourceRepository = (*PGResourceRepository)(nil)
