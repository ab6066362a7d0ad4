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

var departmentColumns = []string{"id", "name", "budget", "start_date", "head_instructor_id"}

// DepartmentRepository handles department database operations
type DepartmentRepository struct {
	pgRepository
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(database *db.PostgresDB) *DepartmentRepository {
	return &DepartmentRepository{pgRepository: newPgRepository(database)}
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	department := &models.Department{}
	if err := row.Scan(&department.ID, &department.Name, &department.Budget, &department.StartDate, &department.HeadInstructorID); err != nil {
		return nil, translateError(err)
	}
	return department, nil
}

// Create inserts a department and fills its ID
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	query, args, err := r.sb.Insert("departments").
		Columns("name", "budget", "start_date", "head_instructor_id").
		Values(department.Name, department.Budget, department.StartDate, department.HeadInstructorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&department.ID); err != nil {
		logger.Error().Err(err).Str("name", department.Name).Msg("Error creating department")
		return fmt.Errorf("error creating department: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query, args, err := r.sb.Select(departmentColumns...).
		From("departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}
	return scanDepartment(r.conn(ctx).QueryRow(ctx, query, args...))
}

// List returns all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	query, args, err := r.sb.Select(departmentColumns...).
		From("departments").
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list departments query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying departments")
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

// Update overwrites every column of a department
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.exec(ctx, r.sb.Update("departments").
		SetMap(map[string]interface{}{
			"name":               department.Name,
			"budget":             department.Budget,
			"start_date":         department.StartDate,
			"head_instructor_id": department.HeadInstructorID,
			"updated_at":         time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": department.ID}), "update department")
}

// Delete removes a department. Courses still attached make it fail with ErrForeignKey.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete("departments").Where(squirrel.Eq{"id": id}), "delete department")
}

// ClaimHead makes instructorID the head of departmentID only if the department has no head yet.
// It is a single conditional UPDATE, so two concurrent claims cannot both win.
func (r *DepartmentRepository) ClaimHead(ctx context.Context, departmentID, instructorID int64) (bool, error) {
	return r.conditionalHeadUpdate(ctx, r.claimHeadQuery(departmentID, instructorID), "claim department head")
}

func (r *DepartmentRepository) claimHeadQuery(departmentID, instructorID int64) squirrel.UpdateBuilder {
	return r.sb.Update("departments").
		Set("head_instructor_id", instructorID).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": departmentID, "head_instructor_id": nil})
}

// ReleaseHead clears the head of departmentID only if it is instructorID
func (r *DepartmentRepository) ReleaseHead(ctx context.Context, departmentID, instructorID int64) (bool, error) {
	return r.conditionalHeadUpdate(ctx, r.releaseHeadQuery(departmentID, instructorID), "release department head")
}

func (r *DepartmentRepository) releaseHeadQuery(departmentID, instructorID int64) squirrel.UpdateBuilder {
	return r.sb.Update("departments").
		Set("head_instructor_id", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": departmentID, "head_instructor_id": instructorID})
}

// ClearHeadForInstructor clears every department headed by instructorID
func (r *DepartmentRepository) ClearHeadForInstructor(ctx context.Context, instructorID int64) error {
	_, err := r.conditionalHeadUpdate(ctx, r.sb.Update("departments").
		Set("head_instructor_id", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"head_instructor_id": instructorID}), "clear department head")
	return err
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("departments"), "departments")
}

func (r *DepartmentRepository) conditionalHeadUpdate(ctx context.Context, builder squirrel.UpdateBuilder, what string) (bool, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", what).Msg("Error updating department head")
		return false, fmt.Errorf("error executing %s: %w", what, translateError(err))
	}
	return tag.RowsAffected() > 0, nil
}
