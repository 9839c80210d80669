package repository

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/persistence"
)

// TEST_POSTGRES_DSN points the storage tests at an existing database. Without
// it a disposable postgres container is started; when docker is unavailable
// the storage tests are skipped.
const testDSNEnv = "TEST_POSTGRES_DSN"

var (
	testDB     *pgxpool.Pool
	skipReason string
)

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	flag.Parse()
	if testing.Short() {
		skipReason = "short mode"
		return m.Run()
	}

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		pool, err := dockertest.NewPool("")
		if err == nil {
			err = pool.Client.Ping()
		}
		if err != nil {
			skipReason = fmt.Sprintf("no %s and docker unavailable: %v", testDSNEnv, err)
			return m.Run()
		}

		pgResource, err := pool.RunWithOptions(&dockertest.RunOptions{
			Repository: "postgres",
			Tag:        "16-alpine",
			Env: []string{
				"POSTGRES_USER=campus",
				"POSTGRES_PASSWORD=campus",
				"POSTGRES_DB=campus_test",
			},
		}, func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
		if err != nil {
			skipReason = fmt.Sprintf("start postgres container: %v", err)
			return m.Run()
		}
		defer func() { _ = pool.Purge(pgResource) }()
		_ = pgResource.Expire(300)

		dsn = fmt.Sprintf("postgres://campus:campus@%s/campus_test?sslmode=disable", pgResource.GetHostPort("5432/tcp"))
		pool.MaxWait = 2 * time.Minute
		if err := pool.Retry(func() error {
			db, err := pgxpool.New(context.Background(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Ping(context.Background())
		}); err != nil {
			fmt.Fprintf(os.Stderr, "postgres container not ready: %v\n", err)
			return 1
		}
	}

	if err := persistence.RunMigrations(dsn, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate test database: %v\n", err)
		return 1
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		return 1
	}
	defer db.Close()
	testDB = db

	return m.Run()
}

// requireDB returns the shared pool on an emptied schema.
func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDB == nil {
		t.Skip(skipReason)
	}
	_, err := testDB.Exec(context.Background(), `TRUNCATE bookings, resources, users`)
	require.NoError(t, err)
	return testDB
}

func seedUser(t *testing.T, users UserRepository, n int) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         fmt.Sprintf("User %d", n),
		Email:        fmt.Sprintf("user%d@campus.edu", n),
		PasswordHash: "x",
		Phone:        fmt.Sprintf("+1555%04d", n),
		Role:         domain.UserRoleStudent,
		Status:       domain.UserStatusInactive,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func seedResource(t *testing.T, resources ResourceRepository) *domain.Resource {
	t.Helper()
	res := &domain.Resource{Name: "Lab 1", Type: domain.ResourceTypeLab, Capacity: 20, Status: domain.ResourceStatusAvailable}
	require.NoError(t, resources.Create(context.Background(), res))
	return res
}

func newBooking(userID, resourceID string) *domain.Booking {
	return &domain.Booking{
		UserID:      userID,
		ResourceID:  resourceID,
		BookingDate: time.Date(2030, time.January, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00-11:00",
		Status:      domain.BookingStatusPending,
	}
}

func conflictCheck(candidate *domain.Booking) ConflictCheck {
	return func(existing []domain.Booking) error {
		return domain.CheckBookingConflicts(*candidate, existing)
	}
}

func countRows(t *testing.T, db *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

func TestCreateCheckedConcurrentSameSlot(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	bookings := NewBookingRepository(db)
	res := seedResource(t, NewResourceRepository(db))

	const contenders = 8
	var ids []string
	for i := 0; i < contenders; i++ {
		ids = append(ids, seedUser(t, users, i).ID)
	}

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		errs      = make([]error, contenders)
		candidate = make([]*domain.Booking, contenders)
	)
	for i := 0; i < contenders; i++ {
		candidate[i] = newBooking(ids[i], res.ID)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = bookings.CreateChecked(context.Background(), candidate[i], conflictCheck(candidate[i]))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, domain.ConflictResource, conflict.Kind)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM bookings WHERE resource_id = $1`, res.ID))
}

func TestCreateCheckedRebookAfterReject(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	bookings := NewBookingRepository(db)
	res := seedResource(t, NewResourceRepository(db))
	first := seedUser(t, users, 1)
	second := seedUser(t, users, 2)
	ctx := context.Background()

	original := newBooking(first.ID, res.ID)
	require.NoError(t, bookings.CreateChecked(ctx, original, conflictCheck(original)))
	assert.Equal(t, first.Name, original.UserName)
	assert.Equal(t, res.Name, original.ResourceName)

	taken := newBooking(second.ID, res.ID)
	var conflict *domain.ConflictError
	require.ErrorAs(t, bookings.CreateChecked(ctx, taken, conflictCheck(taken)), &conflict)
	assert.Equal(t, original.ID, conflict.BookingID)

	require.NoError(t, bookings.UpdateStatus(ctx, original.ID, domain.BookingStatusRejected))

	rebook := newBooking(second.ID, res.ID)
	require.NoError(t, bookings.CreateChecked(ctx, rebook, conflictCheck(rebook)))
	assert.NotEqual(t, original.ID, rebook.ID)

	// The rejected booking cannot take its slot back.
	var ce *ConstraintError
	require.ErrorAs(t, bookings.UpdateStatus(ctx, original.ID, domain.BookingStatusApproved), &ce)
	assert.True(t, ce.Unique)
	assert.Equal(t, "bookings_resource_slot_active_key", ce.Constraint)
}

func TestCreateCheckedSkippingCheckHitsSlotIndex(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	bookings := NewBookingRepository(db)
	res := seedResource(t, NewResourceRepository(db))
	user := seedUser(t, users, 1)
	ctx := context.Background()
	accept := func([]domain.Booking) error { return nil }

	require.NoError(t, bookings.CreateChecked(ctx, newBooking(user.ID, res.ID), accept))

	var ce *ConstraintError
	require.ErrorAs(t, bookings.CreateChecked(ctx, newBooking(user.ID, res.ID), accept), &ce)
	assert.True(t, ce.Unique)
}

func TestActivateLeavesSingleActiveUser(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		ids = append(ids, seedUser(t, users, i).ID)
	}

	require.NoError(t, users.Activate(ctx, ids[0]))
	require.NoError(t, users.Activate(ctx, ids[1]))
	active, err := users.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusActive, active.Status)
	previous, err := users.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusInactive, previous.Status)

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = users.Activate(ctx, id)
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM users WHERE status = 'ACTIVE'`))

	assert.ErrorIs(t, users.Activate(ctx, uuid.NewString()), ErrNotFound)
}

func TestSingleActiveIndexRejectsSecondActiveRow(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	first := seedUser(t, users, 1)
	second := seedUser(t, users, 2)

	require.NoError(t, users.Activate(ctx, first.ID))

	_, err := db.Exec(ctx, `UPDATE users SET status = 'ACTIVE' WHERE id = $1`, second.ID)
	var ce *ConstraintError
	require.ErrorAs(t, mapError(err), &ce)
	assert.True(t, ce.Unique)
	assert.Equal(t, "users_single_active_key", ce.Constraint)
	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM users WHERE status = 'ACTIVE'`))
}

func TestCreateActiveUserDeactivatesOthers(t *testing.T) {
	db := requireDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	first := seedUser(t, users, 1)
	require.NoError(t, users.Activate(ctx, first.ID))

	second := &domain.User{
		Name: "User 2", Email: "user2@campus.edu", PasswordHash: "x", Phone: "+15550002",
		Role: domain.UserRoleStaff, Status: domain.UserStatusActive,
	}
	require.NoError(t, users.Create(ctx, second))

	got, err := users.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusInactive, got.Status)
	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM users WHERE status = 'ACTIVE'`))

	dup := &domain.User{
		Name: "user 1", Email: "other@campus.edu", PasswordHash: "x", Phone: "+15550003",
		Role: domain.UserRoleStaff, Status: domain.UserStatusInactive,
	}
	var ce *ConstraintError
	require.ErrorAs(t, users.Create(ctx, dup), &ce)
	assert.Equal(t, "users_name_lower_key", ce.Constraint)
	assert.True(t, ce.Unique)
}
