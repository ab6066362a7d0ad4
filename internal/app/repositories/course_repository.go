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

var courseColumns = []string{"c.id", "c.title", "c.credits", "c.department_id"}

// CourseRepository handles course database operations
type CourseRepository struct {
	pgRepository
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{pgRepository: newPgRepository(database)}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	if err := row.Scan(&course.ID, &course.Title, &course.Credits, &course.DepartmentID); err != nil {
		return nil, translateError(err)
	}
	return course, nil
}

// Create inserts a course. A missing department yields ErrForeignKey.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query, args, err := r.sb.Insert("courses").
		Columns("title", "credits", "department_id").
		Values(course.Title, course.Credits, course.DepartmentID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&course.ID); err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.sb.Select(courseColumns...).
		From("courses c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}
	return scanCourse(r.conn(ctx).QueryRow(ctx, query, args...))
}

// List returns all courses ordered by title
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	return r.list(ctx, r.sb.Select(courseColumns...).From("courses c").OrderBy("c.title ASC", "c.id ASC"))
}

// ListNotAssignedTo returns the courses the instructor does not teach yet
func (r *CourseRepository) ListNotAssignedTo(ctx context.Context, instructorID int64) ([]*models.Course, error) {
	return r.list(ctx, r.notAssignedQuery(instructorID))
}

func (r *CourseRepository) notAssignedQuery(instructorID int64) squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).
		From("courses c").
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM course_instructors ci WHERE ci.course_id = c.id AND ci.instructor_id = ?)", instructorID)).
		OrderBy("c.title ASC", "c.id ASC")
}

// Update overwrites a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.exec(ctx, r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":         course.Title,
			"credits":       course.Credits,
			"department_id": course.DepartmentID,
			"updated_at":    time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": course.ID}), "update course")
}

// Delete removes a course together with its enrollments and assignments
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete("courses").Where(squirrel.Eq{"id": id}), "delete course")
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("courses"), "courses")
}

// Stats returns per-course student and instructor counts
func (r *CourseRepository) Stats(ctx context.Context) ([]models.CourseStats, error) {
	query, args, err := r.sb.Select(
		"c.id", "c.title",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id)",
		"(SELECT COUNT(*) FROM course_instructors ci WHERE ci.course_id = c.id)",
	).
		From("courses c").
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course stats query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course stats: %w", err)
	}
	defer rows.Close()

	stats := []models.CourseStats{}
	for rows.Next() {
		var s models.CourseStats
		if err := rows.Scan(&s.CourseID, &s.Title, &s.StudentCount, &s.InstructorCount); err != nil {
			return nil, fmt.Errorf("error scanning course stats row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *CourseRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Course, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying courses")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}
