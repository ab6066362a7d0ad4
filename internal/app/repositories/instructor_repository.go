package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/db"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

var instructorColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "hire_date", "department_id"}

// InstructorRepository handles instructor and course assignment database operations
type InstructorRepository struct {
	pgRepository
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(database *db.PostgresDB) *InstructorRepository {
	return &InstructorRepository{pgRepository: newPgRepository(database)}
}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	instructor := &models.Instructor{}
	err := row.Scan(&instructor.ID, &instructor.FirstName, &instructor.LastName, &instructor.Email,
		&instructor.PhoneNumber, &instructor.HireDate, &instructor.DepartmentID)
	if err != nil {
		return nil, translateError(err)
	}
	return instructor, nil
}

// Create inserts an instructor and fills its ID
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	instructor.Email = strings.ToLower(strings.TrimSpace(instructor.Email))

	query, args, err := r.sb.Insert("instructors").
		Columns("first_name", "last_name", "email", "phone_number", "hire_date", "department_id").
		Values(instructor.FirstName, instructor.LastName, instructor.Email, instructor.PhoneNumber,
			instructor.HireDate, instructor.DepartmentID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&instructor.ID); err != nil {
		logger.Error().Err(err).Str("email", instructor.Email).Msg("Error creating instructor")
		return fmt.Errorf("error creating instructor: %w", translateError(err))
	}

	logger.Info().Int64("instructorID", instructor.ID).Msg("Instructor created successfully")
	return nil
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	query, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}
	return scanInstructor(r.conn(ctx).QueryRow(ctx, query, args...))
}

// List returns all instructors ordered by name
func (r *InstructorRepository) List(ctx context.Context) ([]*models.Instructor, error) {
	query, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		OrderBy("last_name ASC", "first_name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying instructors")
		return nil, fmt.Errorf("error querying instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, instructor)
	}
	return instructors, rows.Err()
}

// Update overwrites an instructor
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	instructor.Email = strings.ToLower(strings.TrimSpace(instructor.Email))

	return r.exec(ctx, r.sb.Update("instructors").
		SetMap(map[string]interface{}{
			"first_name":    instructor.FirstName,
			"last_name":     instructor.LastName,
			"email":         instructor.Email,
			"phone_number":  instructor.PhoneNumber,
			"hire_date":     instructor.HireDate,
			"department_id": instructor.DepartmentID,
			"updated_at":    time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": instructor.ID}), "update instructor")
}

// Delete removes an instructor; assignments cascade and headed departments are set to NULL
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete("instructors").Where(squirrel.Eq{"id": id}), "delete instructor")
}

// AssignCourse links an instructor to a course. An existing link yields ErrDuplicate.
func (r *InstructorRepository) AssignCourse(ctx context.Context, instructorID, courseID int64) error {
	query, args, err := r.sb.Insert("course_instructors").
		Columns("course_id", "instructor_id").
		Values(courseID, instructorID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign course query: %w", err)
	}

	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error assigning course: %w", translateError(err))
	}
	return nil
}

// Count returns the number of instructors
func (r *InstructorRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("instructors"), "instructors")
}
