package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgInvalidTextRepresents = "22P02"
)

// ConstraintError reports a write rejected by a storage constraint.
type ConstraintError struct {
	Constraint string
	Unique     bool
	Err        error
}

func (e *ConstraintError) Error() string {
	kind := "foreign key"
	if e.Unique {
		kind = "unique"
	}
	return fmt.Sprintf("%s constraint %s violated", kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// mapError normalizes driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Unique: true, Err: err}
		case pgForeignKeyViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
		case pgInvalidTextRepresents:
			// malformed uuid in a lookup
			return ErrNotFound
		}
	}
	return err
}
