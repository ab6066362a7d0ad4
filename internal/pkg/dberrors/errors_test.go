package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "enrollments_student_course_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "courses_department_id_fkey"}

	assert.True(t, IsDuplicateConstraintError(dup, "enrollments_student_course_key"))
	assert.True(t, IsDuplicateConstraintError(dup, ""))
	assert.False(t, IsDuplicateConstraintError(dup, "users_email_lower_key"))
	assert.False(t, IsDuplicateConstraintError(fk, ""))

	assert.True(t, IsForeignKeyError(fk, "courses_department_id_fkey"))
	assert.False(t, IsForeignKeyError(errors.New("boom"), ""))
}
