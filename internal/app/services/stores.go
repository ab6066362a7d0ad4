package services

import (
	"context"

	"github.com/yigit/eduadmin/internal/app/models"
)

// Transactor runs fn in one transaction. Repository calls made with the ctx passed to fn join it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	ListByRole(ctx context.Context, role models.RoleType, offset, limit int) ([]*models.User, int64, error)
	SearchStudents(ctx context.Context, filter models.StudentFilter) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.RoleType) (int64, error)
}

// DepartmentStore persists departments and their head pointer
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
	// ClaimHead sets the head only if the department has none and reports whether it did
	ClaimHead(ctx context.Context, departmentID, instructorID int64) (bool, error)
	// ReleaseHead clears the head only if it is instructorID and reports whether it did
	ReleaseHead(ctx context.Context, departmentID, instructorID int64) (bool, error)
	ClearHeadForInstructor(ctx context.Context, instructorID int64) error
	Count(ctx context.Context) (int64, error)
}

// CourseStore persists courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	ListNotAssignedTo(ctx context.Context, instructorID int64) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) ([]models.CourseStats, error)
}

// InstructorStore persists instructors and their course assignments
type InstructorStore interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	List(ctx context.Context) ([]*models.Instructor, error)
	Update(ctx context.Context, instructor *models.Instructor) error
	Delete(ctx context.Context, id int64) error
	AssignCourse(ctx context.Context, instructorID, courseID int64) error
	Count(ctx context.Context) (int64, error)
}

// EnrollmentStore persists enrollments
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	GetDetail(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ListDetails(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error)
}

// ResetTokenStore persists password reset tokens
type ResetTokenStore interface {
	Save(ctx context.Context, token *models.PasswordResetToken) error
	Get(ctx context.Context, token string) (*models.PasswordResetToken, error)
	// MarkUsed consumes the token and reports whether this call was the one that did
	MarkUsed(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// Stores groups the persistence dependencies of the services
type Stores struct {
	Tx          Transactor
	Users       UserStore
	Departments DepartmentStore
	Courses     CourseStore
	Instructors InstructorStore
	Enrollments EnrollmentStore
	ResetTokens ResetTokenStore
	// Ping checks the backing store for /health
	Ping func(ctx context.Context) error
}
