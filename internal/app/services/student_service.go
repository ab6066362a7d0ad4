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
	"github.com/yigit/eduadmin/internal/pkg/auth"
	"github.com/yigit/eduadmin/internal/pkg/helpers"
)

// StudentService manages users with the student role
type StudentService struct {
	users  UserStore
	logger zerolog.Logger
}

// NewStudentService creates a new student service
func NewStudentService(users UserStore, logger zerolog.Logger) *StudentService {
	return &StudentService{
		users:  users,
		logger: logger,
	}
}

// Create adds a student account
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.User, error) {
	student := req.ToModel()
	if err := requireText(student.FirstName, "firstName"); err != nil {
		return nil, err
	}
	if err := requireText(student.LastName, "lastName"); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	student.Password = hash

	if err := s.users.Create(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email is already registered")
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentId", student.ID).Msg("Student created")
	return student, nil
}

// Get returns a student; users with another role are reported as not found
func (s *StudentService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Student")
	}
	if user.RoleType != models.RoleStudent {
		return nil, apperrors.NewResourceNotFoundError("Student not found")
	}
	return user, nil
}

// List pages through students ordered by last name, first name, then id
func (s *StudentService) List(ctx context.Context, page, size int) ([]*models.User, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.users.ListByRole(ctx, models.RoleStudent, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing students: %w", err)
	}
	return students, helpers.NewPaginationInfo(total, page, limit), nil
}

// Update replaces the editable fields of a student
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.User, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(student)
	if err := requireText(student.FirstName, "firstName"); err != nil {
		return nil, err
	}
	if err := requireText(student.LastName, "lastName"); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email is already registered")
		}
		return nil, lookupError(err, "Student")
	}
	return student, nil
}

// Delete removes a student and their enrollments
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return lookupError(err, "Student")
	}
	s.logger.Info().Int64("studentId", id).Msg("Student deleted")
	return nil
}

// Search filters students by id, by course and by the courses of an instructor
func (s *StudentService) Search(ctx context.Context, req *dto.StudentSearchRequest) ([]*models.User, error) {
	students, err := s.users.SearchStudents(ctx, models.StudentFilter{
		UserID:       req.UserID,
		InstructorID: req.InstructorID,
		CourseID:     req.CourseID,
	})
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	return students, nil
}
