package lib

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Input errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownSetting = errors.New("unknown setting")
)

// SQLSTATE codes the services react to.
const (
	CodeUniqueViolation  = "23505"
	CodeUndefinedColumn  = "42703"
	CodeNoDataFound      = "P0002"
	CodeSerialization    = "40001"
	CodeDeadlockDetected = "40P01"
)

// SQLState extracts the SQLSTATE code from a pgx or pgdriver error.
func SQLState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

func MapPgError(err error) error {
	switch SQLState(err) {
	case CodeUniqueViolation:
		return errors.Join(ErrConflict, err)
	case CodeNoDataFound:
		return errors.Join(ErrNotFound, err)
	case CodeUndefinedColumn:
		return errors.Join(ErrSchemaMismatch, err)
	}
	if _, ok := MissingColumn(err); ok {
		return errors.Join(ErrSchemaMismatch, err)
	}
	return err
}

var missingColumnPattern = regexp.MustCompile(`column "?([a-z_][a-z0-9_]*)"? (?:of relation "[^"]+" )?does not exist`)

// MissingColumn returns the column named by an undefined-column error.
func MissingColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	m := missingColumnPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}
