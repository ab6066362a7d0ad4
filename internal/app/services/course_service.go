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

// CourseService handles course-related operations
type CourseService struct {
	courses     CourseStore
	departments DepartmentStore
	logger      zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore, departments DepartmentStore, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courses:     courses,
		departments: departments,
		logger:      logger,
	}
}

func (s *CourseService) validateCourse(ctx context.Context, course *models.Course) error {
	if err := requireText(course.Title, "title"); err != nil {
		return err
	}
	if course.Credits < 0 {
		return apperrors.NewValidationError("credits cannot be negative")
	}
	if course.DepartmentID <= 0 {
		return apperrors.NewValidationError("departmentId must be a positive number")
	}
	if _, err := s.departments.GetByID(ctx, course.DepartmentID); err != nil {
		return lookupError(err, "Department")
	}
	return nil
}

func (s *CourseService) writeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewResourceNotFoundError("Department not found").WithInner(err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Course not found")
	}
	return err
}

// Create creates a course in an existing department
func (s *CourseService) Create(ctx context.Context, course *models.Course) error {
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return s.writeError(err)
	}
	s.logger.Info().Int64("courseId", course.ID).Str("title", course.Title).Msg("Course created")
	return nil
}

// Get retrieves a course by ID
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Course")
	}
	return course, nil
}

// List retrieves all courses
func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// Update replaces a course
func (s *CourseService) Update(ctx context.Context, course *models.Course) error {
	if _, err := s.courses.GetByID(ctx, course.ID); err != nil {
		return lookupError(err, "Course")
	}
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return s.writeError(err)
	}
	return nil
}

// Delete removes a course together with its enrollments and instructor assignments
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return s.writeError(err)
	}
	s.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}
