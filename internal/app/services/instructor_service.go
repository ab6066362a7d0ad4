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
)

// InstructorService manages instructors, their login accounts and the department head pointer.
// The first instructor of a department without a head becomes its head.
type InstructorService struct {
	tx          Transactor
	instructors InstructorStore
	departments DepartmentStore
	courses     CourseStore
	users       UserStore
	resets      *PasswordResets
	logger      zerolog.Logger
}

// NewInstructorService creates a new instructor service
func NewInstructorService(stores Stores, resets *PasswordResets, logger zerolog.Logger) *InstructorService {
	return &InstructorService{
		tx:          stores.Tx,
		instructors: stores.Instructors,
		departments: stores.Departments,
		courses:     stores.Courses,
		users:       stores.Users,
		resets:      resets,
		logger:      logger,
	}
}

func (s *InstructorService) validateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if err := requireText(instructor.FirstName, "firstName"); err != nil {
		return err
	}
	if err := requireText(instructor.LastName, "lastName"); err != nil {
		return err
	}
	if err := requireText(instructor.Email, "email"); err != nil {
		return err
	}
	instructor.Email = normalizeEmail(instructor.Email)

	if instructor.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *instructor.DepartmentID); err != nil {
			return lookupError(err, "Department")
		}
	}
	return nil
}

func (s *InstructorService) writeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError("An instructor with this email already exists")
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewResourceNotFoundError("Department not found").WithInner(err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Instructor not found")
	}
	return err
}

// Create adds an instructor, claims the department head when it is free and makes sure a
// login account exists, all in one transaction
func (s *InstructorService) Create(ctx context.Context, req *dto.InstructorRequest) (*models.Instructor, error) {
	instructor := req.ToModel(0)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.create(ctx, instructor, req.Password)
	})
	if err != nil {
		return nil, err
	}
	return instructor, nil
}

// create must run inside a transaction
func (s *InstructorService) create(ctx context.Context, instructor *models.Instructor, password string) error {
	if err := s.validateInstructor(ctx, instructor); err != nil {
		return err
	}

	if err := s.instructors.Create(ctx, instructor); err != nil {
		return s.writeError(err)
	}

	if instructor.DepartmentID != nil {
		claimed, err := s.departments.ClaimHead(ctx, *instructor.DepartmentID, instructor.ID)
		if err != nil {
			return fmt.Errorf("error claiming department head: %w", err)
		}
		if claimed {
			s.logger.Info().
				Int64("instructorId", instructor.ID).
				Int64("departmentId", *instructor.DepartmentID).
				Msg("Instructor became department head")
		}
	}

	if err := s.ensureAccount(ctx, instructor, password); err != nil {
		return err
	}

	s.logger.Info().Int64("instructorId", instructor.ID).Str("email", instructor.Email).Msg("Instructor created")
	return nil
}

// ensureAccount promotes an existing user to instructor, or creates the account with password
func (s *InstructorService) ensureAccount(ctx context.Context, instructor *models.Instructor, password string) error {
	user, err := s.users.GetByEmail(ctx, instructor.Email)
	if err == nil {
		if user.RoleType == models.RoleStudent {
			if err := s.users.UpdateRole(ctx, user.ID, models.RoleInstructor); err != nil {
				return fmt.Errorf("error promoting user to instructor: %w", err)
			}
		}
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("error looking up instructor account: %w", err)
	}

	if password == "" || password == dto.PasswordUnchanged {
		return apperrors.NewValidationError("password is required to create the instructor's account")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	hireDate := instructor.HireDate
	account := &models.User{
		Email:          instructor.Email,
		Password:       hash,
		RoleType:       models.RoleInstructor,
		FirstName:      instructor.FirstName,
		LastName:       instructor.LastName,
		PhoneNumber:    instructor.PhoneNumber,
		EnrollmentDate: &hireDate,
	}
	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.NewConflictError("Email is already registered")
		}
		return fmt.Errorf("error creating instructor account: %w", err)
	}
	return nil
}

// Update replaces an instructor. Moving to another department claims the new department's head
// when it is free and releases the old one when this instructor held it. The linked account,
// found by the previous email, receives the new name, email, phone and hire date.
func (s *InstructorService) Update(ctx context.Context, id int64, req *dto.InstructorRequest) (*models.Instructor, error) {
	updated := req.ToModel(id)

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.instructors.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "Instructor")
		}
		if err := s.validateInstructor(ctx, updated); err != nil {
			return err
		}
		if err := s.instructors.Update(ctx, updated); err != nil {
			return s.writeError(err)
		}

		if !sameID(current.DepartmentID, updated.DepartmentID) {
			if err := s.moveHead(ctx, id, current.DepartmentID, updated.DepartmentID); err != nil {
				return err
			}
		}

		return s.syncAccount(ctx, current.Email, updated, req.Password)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *InstructorService) moveHead(ctx context.Context, instructorID int64, from, to *int64) error {
	if to != nil {
		if _, err := s.departments.ClaimHead(ctx, *to, instructorID); err != nil {
			return fmt.Errorf("error claiming department head: %w", err)
		}
	}
	if from != nil {
		released, err := s.departments.ReleaseHead(ctx, *from, instructorID)
		if err != nil {
			return fmt.Errorf("error releasing department head: %w", err)
		}
		if released {
			s.logger.Info().Int64("instructorId", instructorID).Int64("departmentId", *from).Msg("Department head cleared")
		}
	}
	return nil
}

func (s *InstructorService) syncAccount(ctx context.Context, previousEmail string, instructor *models.Instructor, password string) error {
	user, err := s.users.GetByEmail(ctx, previousEmail)
	if errors.Is(err, repositories.ErrNotFound) {
		s.logger.Warn().Int64("instructorId", instructor.ID).Str("email", previousEmail).Msg("Instructor has no linked account")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error looking up instructor account: %w", err)
	}

	hireDate := instructor.HireDate
	user.FirstName = instructor.FirstName
	user.LastName = instructor.LastName
	user.Email = instructor.Email
	user.PhoneNumber = instructor.PhoneNumber
	user.EnrollmentDate = &hireDate
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.NewConflictError("Email is already registered")
		}
		return fmt.Errorf("error updating instructor account: %w", err)
	}

	if password == "" || password == dto.PasswordUnchanged {
		return nil
	}
	return s.resets.ChangePassword(ctx, user.ID, password)
}

// Delete removes an instructor, its login account and any headship it holds.
// Admin accounts sharing the email are kept.
func (s *InstructorService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		instructor, err := s.instructors.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "Instructor")
		}

		user, err := s.users.GetByEmail(ctx, instructor.Email)
		switch {
		case err == nil && user.RoleType != models.RoleAdmin:
			if err := s.users.Delete(ctx, user.ID); err != nil {
				return fmt.Errorf("error deleting instructor account: %w", err)
			}
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("error looking up instructor account: %w", err)
		}

		if err := s.departments.ClearHeadForInstructor(ctx, id); err != nil {
			return fmt.Errorf("error clearing department head: %w", err)
		}
		if err := s.instructors.Delete(ctx, id); err != nil {
			return s.writeError(err)
		}

		s.logger.Info().Int64("instructorId", id).Msg("Instructor deleted")
		return nil
	})
}

// Get retrieves an instructor by ID
func (s *InstructorService) Get(ctx context.Context, id int64) (*models.Instructor, error) {
	instructor, err := s.instructors.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Instructor")
	}
	return instructor, nil
}

// List retrieves all instructors
func (s *InstructorService) List(ctx context.Context) ([]*models.Instructor, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing instructors: %w", err)
	}
	return instructors, nil
}

// AvailableCourses lists the courses not yet assigned to the instructor
func (s *InstructorService) AvailableCourses(ctx context.Context, id int64) ([]*models.Course, error) {
	if _, err := s.instructors.GetByID(ctx, id); err != nil {
		return nil, lookupError(err, "Instructor")
	}
	courses, err := s.courses.ListNotAssignedTo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing available courses: %w", err)
	}
	return courses, nil
}

// AssignCourse links an instructor to a course
func (s *InstructorService) AssignCourse(ctx context.Context, req *dto.AssignCourseRequest) error {
	if _, err := s.instructors.GetByID(ctx, req.InstructorID); err != nil {
		return lookupError(err, "Instructor")
	}
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return lookupError(err, "Course")
	}

	err := s.instructors.AssignCourse(ctx, req.InstructorID, req.CourseID)
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError("Course is already assigned to this instructor")
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NewResourceNotFoundError("Instructor or course not found").WithInner(err.Error())
	case err != nil:
		return fmt.Errorf("error assigning course: %w", err)
	}

	s.logger.Info().Int64("instructorId", req.InstructorID).Int64("courseId", req.CourseID).Msg("Course assigned")
	return nil
}
