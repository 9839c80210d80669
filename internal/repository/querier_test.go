package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-booking/internal/domain"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "1=1", w.sql())

	w.eq("u.status", "ACTIVE")
	w.search("  Jane ", "u.name", "u.email")
	w.search("   ", "u.phone")
	w.cond("b.booking_date >= $%d", "2024-01-10")

	assert.Equal(t,
		`u.status = $1 AND (LOWER(u.name) LIKE $2 ESCAPE '\' OR LOWER(u.email) LIKE $2 ESCAPE '\') AND b.booking_date >= $3`,
		w.sql())
	assert.Equal(t, []any{"ACTIVE", "%jane%", "2024-01-10"}, w.args)
}

func TestWhereBuilderSearchEscapesWildcards(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"100%", `%100\%%`},
		{"room_1", `%room\_1%`},
		{`a\b`, `%a\\b%`},
		{"Lab", "%lab%"},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var w whereBuilder
			w.search(tt.term, "r.name")
			assert.Equal(t, `(LOWER(r.name) LIKE $1 ESCAPE '\')`, w.sql())
			assert.Equal(t, []any{tt.want}, w.args)
		})
	}
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"name": "r.name", "capacity": "r.capacity"}
	assert.Equal(t, "r.name ASC", orderBy("name", allowed, "r.name ASC"))
	assert.Equal(t, "r.capacity DESC", orderBy("-capacity", allowed, "r.name ASC"))
	assert.Equal(t, "r.name ASC", orderBy("location; DROP TABLE", allowed, "r.name ASC"))
	assert.Equal(t, "r.name ASC", orderBy("", allowed, "r.name ASC"))
}

func TestPageClause(t *testing.T) {
	assert.Equal(t, "LIMIT 100 OFFSET 0", pageClause(ListOptions{}))
	assert.Equal(t, "LIMIT 100 OFFSET 0", pageClause(ListOptions{Page: -3, PageSize: -5}))
	assert.Equal(t, "LIMIT 100 OFFSET 100", pageClause(ListOptions{Page: 2}))
	assert.Equal(t, "LIMIT 500 OFFSET 500", pageClause(ListOptions{Page: 2, PageSize: 10000}))
	assert.Equal(t, "LIMIT 10 OFFSET 10", pageClause(ListOptions{Page: 2, PageSize: 10}))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: pgInvalidTextRepresents}), ErrNotFound)

	var ce *ConstraintError
	require.ErrorAs(t, mapError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_phone_key"}), &ce)
	assert.True(t, ce.Unique)
	assert.Equal(t, "users_phone_key", ce.Constraint)

	require.ErrorAs(t, mapError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "bookings_user_id_fkey"}), &ce)
	assert.False(t, ce.Unique)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestSlotLockKeysSorted(t *testing.T) {
	day, err := time.Parse(domain.DateLayout, "2024-01-10")
	require.NoError(t, err)
	keys := slotLockKeys(&domain.Booking{UserID: "u1", ResourceID: "r1", BookingDate: day, TimeSlot: "10:00-11:00"})
	assert.Equal(t, []string{
		"booking:resource:r1:2024-01-10:10:00-11:00",
		"booking:user:u1:2024-01-10:10:00-11:00",
	}, keys)
}
