package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-booking/internal/domain"
)

// StatsRepository aggregates dashboard counters.
type StatsRepository interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds the repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM resources),
            (SELECT COUNT(*) FROM bookings),
            (SELECT COUNT(*) FROM bookings WHERE status = 'PENDING'),
            (SELECT COUNT(*) FROM users WHERE role = 'STUDENT'),
            (SELECT COUNT(*) FROM users WHERE role = 'STAFF'),
            (SELECT COUNT(*) FROM users WHERE role = 'ADMIN'),
            (SELECT COUNT(*) FROM resources WHERE type = 'LAB'),
            (SELECT COUNT(*) FROM resources WHERE type = 'CLASSROOM'),
            (SELECT COUNT(*) FROM resources WHERE type = 'EVENT_HALL'),
            (SELECT COUNT(*) FROM resources WHERE type = 'COMPUTER')`

	var s domain.Stats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalUsers,
		&s.TotalResources,
		&s.TotalBookings,
		&s.PendingBookings,
		&s.UserBreakdown.Students,
		&s.UserBreakdown.Staff,
		&s.UserBreakdown.Admins,
		&s.ResourceBreakdown.Labs,
		&s.ResourceBreakdown.Classrooms,
		&s.ResourceBreakdown.EventHalls,
		&s.ResourceBreakdown.Computers,
	); err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}
