package services

import (
	"time"

	"github.com/yigit/eduadmin/internal/pkg/auth"
	"github.com/yigit/eduadmin/internal/pkg/filestorage"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

// Options carries the non-storage dependencies of the services
type Options struct {
	JWTService     *auth.JWTService
	Storage        filestorage.FileStorage
	MaxUploadBytes int64
	ResetTokenTTL  time.Duration
}

// Services groups every service of the application
type Services struct {
	Auth        *AuthService
	Departments *DepartmentService
	Courses     *CourseService
	Instructors *InstructorService
	Students    *StudentService
	Enrollments *EnrollmentService
	Analysis    *AnalysisService
	Resets      *PasswordResets
}

// NewServices wires every service over stores
func NewServices(stores Stores, opts Options) *Services {
	resets := NewPasswordResets(stores.ResetTokens, stores.Users, opts.ResetTokenTTL, logger.Component("password_reset"))
	instructors := NewInstructorService(stores, resets, logger.Component("instructor"))

	return &Services{
		Auth:        NewAuthService(stores, instructors, resets, opts.JWTService, opts.Storage, opts.MaxUploadBytes, logger.Component("auth")),
		Departments: NewDepartmentService(stores.Departments, stores.Instructors, logger.Component("department")),
		Courses:     NewCourseService(stores.Courses, stores.Departments, logger.Component("course")),
		Instructors: instructors,
		Students:    NewStudentService(stores.Users, logger.Component("student")),
		Enrollments: NewEnrollmentService(stores.Enrollments, stores.Courses, stores.Users, logger.Component("enrollment")),
		Analysis:    NewAnalysisService(stores),
		Resets:      resets,
	}
}
