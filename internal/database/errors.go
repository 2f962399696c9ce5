package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Kind classifies a storage failure.
type Kind int

const (
	// KindStorage is any persistence failure that is not a constraint violation.
	KindStorage Kind = iota
	// KindConstraintViolation is a broken CHECK, NOT NULL or uniqueness constraint.
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "storage_error"
	}
}

// Error is returned by every Store operation that fails.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of a storage error and whether err carries one.
func KindOf(err error) (Kind, bool) {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind, true
	}
	return KindStorage, false
}

// classify wraps a driver error with its Kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindStorage
	if isConstraintViolation(err) {
		kind = KindConstraintViolation
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation.
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
