package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/controllers"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/middleware"
)

// Controllers bundles the handlers mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	Departments *controllers.DepartmentController
	Courses     *controllers.CourseController
	Instructors *controllers.InstructorController
	Students    *controllers.StudentController
	Enrollments *controllers.EnrollmentController
	Analysis    *controllers.AnalysisController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter *middleware.RateLimiter,
) {
	router.GET("/health", c.Analysis.Health)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		limited := auth.Group("")
		if authLimiter != nil {
			limited.Use(authLimiter.Middleware())
		}
		limited.POST("/register", c.Auth.Register)
		limited.POST("/login", c.Auth.Login)
		limited.POST("/forgot-password", c.Auth.ForgotPassword)
		limited.POST("/reset-password", c.Auth.ResetPassword)

		me := auth.Group("/me")
		me.Use(authMiddleware.JWTAuth())
		{
			me.GET("", c.Auth.Me)
			me.PUT("", c.Auth.UpdateProfile)
			me.POST("/photo", c.Auth.UpdatePhoto)
		}
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	staff := authMiddleware.RolesRequired(models.RoleInstructor, models.RoleAdmin)
	adminOnly := authMiddleware.RolesRequired(models.RoleAdmin)

	departments := authenticated.Group("/departments")
	{
		departments.GET("", c.Departments.GetAllDepartments)
		departments.GET("/:id", c.Departments.GetDepartmentByID)
		departments.POST("", staff, c.Departments.CreateDepartment)
		departments.PUT("/:id", staff, c.Departments.UpdateDepartment)
		departments.DELETE("/:id", staff, c.Departments.DeleteDepartment)
	}

	courses := authenticated.Group("/courses")
	{
		courses.GET("", c.Courses.GetAllCourses)
		courses.GET("/:id", c.Courses.GetCourseByID)
		courses.POST("", staff, c.Courses.CreateCourse)
		courses.PUT("/:id", staff, c.Courses.UpdateCourse)
		courses.DELETE("/:id", staff, c.Courses.DeleteCourse)
	}

	instructors := authenticated.Group("/instructors")
	{
		instructors.GET("", c.Instructors.GetAllInstructors)
		instructors.GET("/:id", c.Instructors.GetInstructorByID)
		instructors.GET("/:id/available-courses", c.Instructors.GetAvailableCourses)
		instructors.POST("/courses/assign", staff, c.Instructors.AssignCourse)
		instructors.POST("", adminOnly, c.Instructors.CreateInstructor)
		instructors.PUT("/:id", adminOnly, c.Instructors.UpdateInstructor)
		instructors.DELETE("/:id", adminOnly, c.Instructors.DeleteInstructor)
	}

	students := authenticated.Group("/students")
	students.Use(staff)
	{
		students.GET("", c.Students.GetStudents)
		students.POST("", c.Students.CreateStudent)
		students.GET("/search", c.Students.SearchStudents)
		students.GET("/:id", c.Students.GetStudentByID)
		students.PUT("/:id", c.Students.UpdateStudent)
		students.DELETE("/:id", c.Students.DeleteStudent)
	}

	enrollments := authenticated.Group("/enrollments")
	{
		// Students may read their own enrollments
		enrollments.GET("/student/:id",
			authMiddleware.SelfOrRolesRequired("id", models.RoleInstructor, models.RoleAdmin),
			c.Enrollments.GetStudentEnrollments)

		enrollments.GET("", staff, c.Enrollments.GetAllEnrollments)
		enrollments.GET("/:id", staff, c.Enrollments.GetEnrollmentByID)
		enrollments.GET("/course/:id", staff, c.Enrollments.GetCourseEnrollments)
		enrollments.POST("", staff, c.Enrollments.CreateEnrollment)
		enrollments.PUT("/:id", staff, c.Enrollments.UpdateEnrollment)
		enrollments.DELETE("/:id", staff, c.Enrollments.DeleteEnrollment)
	}

	authenticated.GET("/analysis", adminOnly, c.Analysis.GetAnalysis)
}
