package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsDuplicateConstraintError reports a unique violation (23505) on the named constraint.
// An empty constraintName matches any unique constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return matches(err, uniqueViolation, constraintName)
}

// IsForeignKeyError reports a foreign key violation (23503) on the named constraint.
// An empty constraintName matches any foreign key.
func IsForeignKeyError(err error, constraintName string) bool {
	return matches(err, foreignKeyViolation, constraintName)
}

func matches(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
