package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/readlater/internal/errx"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"

	// dataExceptionClass covers values PostgreSQL refuses to store, such as a NUL
	// byte in text (22021) or an over-long string (22001).
	dataExceptionClass = "22"
)

// MapError tags a database error with the errx kind the stores branch on.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, ErrReleased):
		return errx.E(op, errx.Misuse, err)

	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case uniqueViolationCode:
			return errx.E(op, errx.Conflict, err)
		case foreignKeyViolationCode, checkViolationCode, notNullViolationCode:
			return errx.E(op, errx.Invalid, err)
		}
		if strings.HasPrefix(pgErr.Code, dataExceptionClass) {
			return errx.E(op, errx.Invalid, err)
		}
		return errx.E(op, errx.Unavailable, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

// IsForeignKeyViolation reports whether err violates the named foreign key constraint.
// An empty constraint matches any foreign key violation.
func IsForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
