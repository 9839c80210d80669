package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-booking/internal/domain"
)

// BookingFilter captures list filters for bookings.
type BookingFilter struct {
	Status          *domain.BookingStatus
	UserID          *string
	ResourceID      *string
	BookingDate     *time.Time
	DateFrom        *time.Time
	ExcludeRejected bool
	ListOptions
}

// ConflictCheck inspects the bookings occupying a candidate's slot and
// returns an error to abort the insert.
type ConflictCheck func(existing []domain.Booking) error

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	// CreateChecked inserts booking after check accepts the snapshot of
	// non-rejected bookings sharing its date and slot with the same resource
	// or user. Snapshot and insert happen under slot-scoped locks in one
	// transaction.
	CreateChecked(ctx context.Context, booking *domain.Booking, check ConflictCheck) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingSelect = `
        SELECT b.id, b.user_id, u.name, b.resource_id, r.name, r.type,
               b.booking_date, b.time_slot, b.status, b.created_at
        FROM bookings b
        JOIN users u ON u.id = b.user_id
        JOIN resources r ON r.id = b.resource_id`

var bookingOrdering = map[string]string{
	"created_at":   "b.created_at",
	"booking_date": "b.booking_date",
}

// slotLockKeys returns the advisory lock keys of a candidate, sorted so that
// concurrent creators always acquire them in the same order.
func slotLockKeys(b *domain.Booking) []string {
	day := b.BookingDate.Format(domain.DateLayout)
	keys := []string{
		fmt.Sprintf("booking:resource:%s:%s:%s", b.ResourceID, day, b.TimeSlot),
		fmt.Sprintf("booking:user:%s:%s:%s", b.UserID, day, b.TimeSlot),
	}
	sort.Strings(keys)
	return keys
}

func (r *bookingRepository) CreateChecked(ctx context.Context, booking *domain.Booking, check ConflictCheck) error {
	return mapError(pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, key := range slotLockKeys(booking) {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
				return fmt.Errorf("acquire slot lock: %w", err)
			}
		}

		rows, err := tx.Query(ctx, bookingSelect+`
        WHERE b.booking_date = $1 AND b.time_slot = $2 AND b.status <> $3
          AND (b.resource_id = $4 OR b.user_id = $5)
        ORDER BY b.created_at`,
			booking.BookingDate,
			booking.TimeSlot,
			domain.BookingStatusRejected,
			booking.ResourceID,
			booking.UserID,
		)
		if err != nil {
			return err
		}
		existing, err := scanBookings(rows)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		booking.ID = uuid.NewString()
		if _, err := tx.Exec(ctx, `
        INSERT INTO bookings (id, user_id, resource_id, booking_date, time_slot, status)
        VALUES ($1,$2,$3,$4,$5,$6)`,
			booking.ID,
			booking.UserID,
			booking.ResourceID,
			booking.BookingDate,
			booking.TimeSlot,
			booking.Status,
		); err != nil {
			return err
		}

		created, err := scanBooking(tx.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, booking.ID))
		if err != nil {
			return err
		}
		*booking = *created
		return nil
	}))
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.eq("b.status", *filter.Status)
	}
	if filter.UserID != nil {
		where.eq("b.user_id", *filter.UserID)
	}
	if filter.ResourceID != nil {
		where.eq("b.resource_id", *filter.ResourceID)
	}
	if filter.BookingDate != nil {
		where.eq("b.booking_date", *filter.BookingDate)
	}
	if filter.DateFrom != nil {
		where.cond("b.booking_date >= $%d", *filter.DateFrom)
	}
	if filter.ExcludeRejected {
		where.cond("b.status <> $%d", domain.BookingStatusRejected)
	}
	where.search(filter.Search, "u.name", "r.name")

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s, b.id %s`,
		bookingSelect,
		where.sql(),
		orderBy(filter.Ordering, bookingOrdering, "b.created_at DESC"),
		pageClause(filter.ListOptions),
	)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, mapError(err)
	}
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	result := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *booking)
	}
	return result, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.UserName,
		&booking.ResourceID,
		&booking.ResourceName,
		&booking.ResourceType,
		&booking.BookingDate,
		&booking.TimeSlot,
		&booking.Status,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}
