package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/db"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment database operations.
// The enrollments_student_course_key unique constraint is the only guard against duplicate pairs.
type EnrollmentRepository struct {
	pgRepository
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(database *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{pgRepository: newPgRepository(database)}
}

// Create inserts an enrollment. A duplicate (student, course) pair yields ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "course_id", "grade").
		Values(enrollment.StudentID, enrollment.CourseID, enrollment.Grade).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&enrollment.ID); err != nil {
		logger.Warn().Err(err).
			Int64("studentID", enrollment.StudentID).
			Int64("courseID", enrollment.CourseID).
			Msg("Error creating enrollment")
		return fmt.Errorf("error creating enrollment: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves the bare enrollment row
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query, args, err := r.sb.Select("id", "student_id", "course_id", "grade").
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment := &models.Enrollment{}
	err = r.conn(ctx).QueryRow(ctx, query, args...).
		Scan(&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID, &enrollment.Grade)
	if err != nil {
		return nil, translateError(err)
	}
	return enrollment, nil
}

// Update overwrites student, course and grade of an enrollment
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.exec(ctx, r.sb.Update("enrollments").
		SetMap(map[string]interface{}{
			"student_id": enrollment.StudentID,
			"course_id":  enrollment.CourseID,
			"grade":      enrollment.Grade,
			"updated_at": time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": enrollment.ID}), "update enrollment")
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete("enrollments").Where(squirrel.Eq{"id": id}), "delete enrollment")
}

// Count returns the number of enrollments
func (r *EnrollmentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("enrollments"), "enrollments")
}

func (r *EnrollmentRepository) detailQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"e.id", "e.student_id", "e.course_id", "e.grade",
		"u.first_name", "u.last_name", "u.email",
		"c.title", "c.credits", "d.id", "d.name",
	).
		From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		Join("departments d ON d.id = c.department_id")
}

func scanEnrollmentDetail(row pgx.Row) (*models.EnrollmentDetail, error) {
	d := &models.EnrollmentDetail{}
	err := row.Scan(
		&d.ID, &d.StudentID, &d.CourseID, &d.Grade,
		&d.StudentFirstName, &d.StudentLastName, &d.StudentEmail,
		&d.CourseTitle, &d.CourseCredits, &d.DepartmentID, &d.DepartmentName,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return d, nil
}

// GetDetail retrieves one enrollment joined with student, course and department
func (r *EnrollmentRepository) GetDetail(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query, args, err := r.detailQuery().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment detail query: %w", err)
	}
	return scanEnrollmentDetail(r.conn(ctx).QueryRow(ctx, query, args...))
}

// ListDetails lists enrollment projections, optionally for one student and/or one course
func (r *EnrollmentRepository) ListDetails(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	builder := r.detailQuery().OrderBy("e.id ASC")
	if filter.StudentID > 0 {
		builder = builder.Where(squirrel.Eq{"e.student_id": filter.StudentID})
	}
	if filter.CourseID > 0 {
		builder = builder.Where(squirrel.Eq{"e.course_id": filter.CourseID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying enrollments")
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	details := []*models.EnrollmentDetail{}
	for rows.Next() {
		d, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
