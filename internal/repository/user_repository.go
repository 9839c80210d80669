package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-booking/internal/domain"
)

// activationLockKey serializes every transition that can set a user ACTIVE.
const activationLockKey int64 = 0x6361_6d70_7573

// UserFilter captures list filters for users.
type UserFilter struct {
	Status *domain.UserStatus
	Role   *domain.UserRole
	ListOptions
}

// UserRepository defines persistence access for campus users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	// Activate makes id the only ACTIVE user in one transaction.
	Activate(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	DeactivateAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone, role, status, created_at`

var userOrdering = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, password_hash, phone, role, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	user.ID = uuid.NewString()
	return r.withActivation(ctx, user, func(q querier) error {
		return q.QueryRow(ctx, query,
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Phone,
			user.Role,
			user.Status,
		).Scan(&user.CreatedAt)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, phone=$4, role=$5, status=$6
        WHERE id=$7`

	return r.withActivation(ctx, user, func(q querier) error {
		cmd, err := q.Exec(ctx, query,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Phone,
			user.Role,
			user.Status,
			user.ID,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

// withActivation runs write directly, or, when user is being saved as ACTIVE,
// inside a transaction that first deactivates every other user.
func (r *userRepository) withActivation(ctx context.Context, user *domain.User, write func(q querier) error) error {
	if user.Status != domain.UserStatusActive {
		return mapError(write(r.pool))
	}
	return mapError(pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := deactivateOthers(ctx, tx, user.ID); err != nil {
			return err
		}
		return write(tx)
	}))
}

func deactivateOthers(ctx context.Context, tx pgx.Tx, keepID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, activationLockKey); err != nil {
		return fmt.Errorf("acquire activation lock: %w", err)
	}
	_, err := tx.Exec(ctx, `UPDATE users SET status=$1 WHERE status=$2 AND id::text <> $3`,
		domain.UserStatusInactive, domain.UserStatusActive, keepID)
	return err
}

func (r *userRepository) Activate(ctx context.Context, id string) error {
	return mapError(pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := deactivateOthers(ctx, tx, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `UPDATE users SET status=$1 WHERE id=$2`, domain.UserStatusActive, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}))
}

func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET status=$1 WHERE id=$2`, domain.UserStatusInactive, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) DeactivateAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET status=$1 WHERE status <> $1`, domain.UserStatusInactive)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

// GetByEmail matches the stored email exactly, including case.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return r.taken(ctx, `LOWER(name) = LOWER($1)`, name, excludeID)
}

func (r *userRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.taken(ctx, `LOWER(email) = LOWER($1)`, email, excludeID)
}

func (r *userRepository) taken(ctx context.Context, match, value, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + match + ` AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.eq("status", *filter.Status)
	}
	if filter.Role != nil {
		where.eq("role", *filter.Role)
	}
	where.search(filter.Search, "name", "email", "phone")

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY %s, id %s`,
		userColumns,
		where.sql(),
		orderBy(filter.Ordering, userOrdering, "created_at DESC"),
		pageClause(filter.ListOptions),
	)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
