package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-booking/internal/domain"
)

// ResourceFilter captures list filters for resources.
type ResourceFilter struct {
	Type   *domain.ResourceType
	Status *domain.ResourceStatus
	ListOptions
}

// ResourceRepository manages resource persistence.
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) error
	Update(ctx context.Context, res *domain.Resource) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error)
}

type resourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository builds the repository.
func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

const resourceColumns = `id, name, type, capacity, status, location`

var resourceOrdering = map[string]string{
	"name":     "name",
	"capacity": "capacity",
}

func (r *resourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	const query = `
        INSERT INTO resources (id, name, type, capacity, status, location)
        VALUES ($1,$2,$3,$4,$5,$6)`
	res.ID = uuid.NewString()
	_, err := r.pool.Exec(ctx, query,
		res.ID,
		res.Name,
		res.Type,
		res.Capacity,
		res.Status,
		res.Location,
	)
	return mapError(err)
}

func (r *resourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	const query = `
        UPDATE resources SET name=$1, type=$2, capacity=$3, status=$4, location=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		res.Name,
		res.Type,
		res.Capacity,
		res.Status,
		res.Location,
		res.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	res, err := scanResource(r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (r *resourceRepository) List(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error) {
	var where whereBuilder
	if filter.Type != nil {
		where.eq("type", *filter.Type)
	}
	if filter.Status != nil {
		where.eq("status", *filter.Status)
	}
	where.search(filter.Search, "name", "COALESCE(location, '')")

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE %s ORDER BY %s, id %s`,
		resourceColumns,
		where.sql(),
		orderBy(filter.Ordering, resourceOrdering, "name ASC"),
		pageClause(filter.ListOptions),
	)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *res)
	}
	return result, rows.Err()
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	if err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Type,
		&res.Capacity,
		&res.Status,
		&res.Location,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
