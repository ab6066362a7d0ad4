package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

// EnrollmentService keeps the enrollment ledger: one row per (student, course) pair
type EnrollmentService struct {
	enrollments EnrollmentStore
	courses     CourseStore
	users       UserStore
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, users UserStore, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		logger:      logger,
	}
}

// validateRequest checks ids and grade, then that the course exists and the user is a student.
// The course is checked before the student.
func (s *EnrollmentService) validateRequest(ctx context.Context, req *dto.EnrollmentRequest) error {
	if req.CourseID <= 0 {
		return apperrors.NewValidationError("courseId must be a positive number")
	}
	if req.StudentID <= 0 {
		return apperrors.NewValidationError("studentId must be a positive number")
	}
	if req.Grade != nil && !req.Grade.IsValid() {
		return apperrors.NewValidationError("grade must be one of A, B, C, D, F")
	}

	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return lookupError(err, "Course")
	}

	user, err := s.users.GetByID(ctx, req.StudentID)
	if err != nil {
		return lookupError(err, "Student")
	}
	if user.RoleType != models.RoleStudent {
		return apperrors.NewValidationError("User is not registered as a student")
	}
	return nil
}

// writeError maps constraint violations of an enrollment write
func (s *EnrollmentService) writeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError("Student is already enrolled in this course")
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewResourceNotFoundError("Course or student not found").WithInner(err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Enrollment not found")
	}
	return err
}

// Create enrolls a student in a course. A second enrollment of the same pair is a conflict;
// the unique index decides concurrent attempts.
func (s *EnrollmentService) Create(ctx context.Context, req *dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Grade:     req.Grade,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info().
		Int64("enrollmentId", enrollment.ID).
		Int64("studentId", enrollment.StudentID).
		Int64("courseId", enrollment.CourseID).
		Msg("Student enrolled")

	return s.Get(ctx, enrollment.ID)
}

// Update overwrites course, student and grade of an enrollment, re-applying the creation checks
func (s *EnrollmentService) Update(ctx context.Context, id int64, req *dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if req.CourseID <= 0 || req.StudentID <= 0 {
		return nil, apperrors.NewValidationError("courseId and studentId must be positive numbers")
	}
	if _, err := s.enrollments.GetByID(ctx, id); err != nil {
		return nil, lookupError(err, "Enrollment")
	}
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		ID:        id,
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Grade:     req.Grade,
	}
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, s.writeError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes an enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return s.writeError(err)
	}
	s.logger.Info().Int64("enrollmentId", id).Msg("Enrollment deleted")
	return nil
}

// Get returns one enrollment with its projections
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollments.GetDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Enrollment")
	}
	return detail, nil
}

// List returns every enrollment
func (s *EnrollmentService) List(ctx context.Context) ([]*models.EnrollmentDetail, error) {
	details, err := s.enrollments.ListDetails(ctx, models.EnrollmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return details, nil
}

// ListByStudent returns the enrollments of one student
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentDetail, error) {
	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		return nil, lookupError(err, "Student")
	}
	details, err := s.enrollments.ListDetails(ctx, models.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments of student %d: %w", studentID, err)
	}
	return details, nil
}

// ListByCourse returns the enrollments in one course
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID int64) ([]*models.EnrollmentDetail, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, lookupError(err, "Course")
	}
	details, err := s.enrollments.ListDetails(ctx, models.EnrollmentFilter{CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments of course %d: %w", courseID, err)
	}
	return details, nil
}
