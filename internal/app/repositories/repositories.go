package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/eduadmin/internal/db"
	"github.com/yigit/eduadmin/internal/pkg/dberrors"
)

// Storage-level errors shared by every repository implementation, Postgres and in-memory alike
var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write points at a missing row, or a delete hits a restricting reference
	ErrForeignKey = errors.New("foreign key violation")
)

// Repositories holds all the Postgres repository instances
type Repositories struct {
	UserRepository       *UserRepository
	DepartmentRepository *DepartmentRepository
	CourseRepository     *CourseRepository
	InstructorRepository *InstructorRepository
	EnrollmentRepository *EnrollmentRepository
	ResetTokenRepository *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories over one pool
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database),
		DepartmentRepository: NewDepartmentRepository(database),
		CourseRepository:     NewCourseRepository(database),
		InstructorRepository: NewInstructorRepository(database),
		EnrollmentRepository: NewEnrollmentRepository(database),
		ResetTokenRepository: NewPasswordResetTokenRepository(database),
	}
}

// pgRepository is embedded by every Postgres repository
type pgRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func newPgRepository(database *db.PostgresDB) pgRepository {
	return pgRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// conn joins the ambient transaction when there is one
func (r pgRepository) conn(ctx context.Context) db.Querier {
	return r.db.Conn(ctx)
}

// exec runs a built statement and reports ErrNotFound when it touched no row
func (r pgRepository) exec(ctx context.Context, builder squirrel.Sqlizer, what string) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", what, err)
	}

	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error executing %s: %w", what, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// count runs a SELECT COUNT(*) builder
func (r pgRepository) count(ctx context.Context, builder squirrel.SelectBuilder, what string) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count query: %w", what, err)
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", what, err)
	}
	return total, nil
}

// translateError maps driver errors onto the shared storage errors, keeping the cause in the chain
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case dberrors.IsDuplicateConstraintError(err, ""):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case dberrors.IsForeignKeyError(err, ""):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}
	return err
}
