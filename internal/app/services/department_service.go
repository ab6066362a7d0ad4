package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

// DepartmentService handles department-related operations
type DepartmentService struct {
	departments DepartmentStore
	instructors InstructorStore
	logger      zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departments DepartmentStore, instructors InstructorStore, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		instructors: instructors,
		logger:      logger,
	}
}

// validateDepartment validates department data before database operations
func (s *DepartmentService) validateDepartment(ctx context.Context, department *models.Department) error {
	if err := requireText(department.Name, "name"); err != nil {
		return err
	}
	if department.Budget < 0 {
		return apperrors.NewValidationError("budget cannot be negative")
	}
	if department.StartDate.IsZero() {
		return apperrors.NewValidationError("startDate is required")
	}

	if department.HeadInstructorID != nil {
		if _, err := s.instructors.GetByID(ctx, *department.HeadInstructorID); err != nil {
			return lookupError(err, "Head instructor")
		}
	}
	return nil
}

func (s *DepartmentService) writeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewResourceNotFoundError("Head instructor not found").WithInner(err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Department not found")
	}
	return err
}

// Create creates a new department
func (s *DepartmentService) Create(ctx context.Context, department *models.Department) error {
	if err := s.validateDepartment(ctx, department); err != nil {
		return err
	}
	if err := s.departments.Create(ctx, department); err != nil {
		return s.writeError(err)
	}
	s.logger.Info().Int64("departmentId", department.ID).Str("name", department.Name).Msg("Department created")
	return nil
}

// Get retrieves a department by ID
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Department")
	}
	return department, nil
}

// List retrieves all departments
func (s *DepartmentService) List(ctx context.Context) ([]*models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	return departments, nil
}

// Update replaces a department, head pointer included
func (s *DepartmentService) Update(ctx context.Context, department *models.Department) error {
	if _, err := s.departments.GetByID(ctx, department.ID); err != nil {
		return lookupError(err, "Department")
	}
	if err := s.validateDepartment(ctx, department); err != nil {
		return err
	}
	if err := s.departments.Update(ctx, department); err != nil {
		return s.writeError(err)
	}
	return nil
}

// Delete removes a department. Departments that still own courses cannot be deleted;
// instructors of a deleted department are left without one.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	err := s.departments.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewConflictError("Department still has courses").WithInner(err.Error())
	case err != nil:
		return s.writeError(err)
	}
	s.logger.Info().Int64("departmentId", id).Msg("Department deleted")
	return nil
}
