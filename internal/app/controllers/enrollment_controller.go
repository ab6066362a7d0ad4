package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/middleware"
)

// EnrollmentController handles the enrollment ledger
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// CreateEnrollment enrolls a student in a course
// @Summary Enroll a student
// @Description The course and the student must exist; the user must hold the STUDENT role and not be enrolled yet
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentRequest true "Enrollment information"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or user is not a student"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Course or student not found"
// @Failure 409 {object} dto.ErrorResponse "Student is already enrolled in this course"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err, "Invalid enrollment data")
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromEnrollmentDetail(enrollment), "Enrollment created successfully"))
}

// GetAllEnrollments lists every enrollment
// @Summary Get all enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollments retrieved successfully"
// @Router /enrollments [get]
func (c *EnrollmentController) GetAllEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromEnrollmentDetails(enrollments), "Enrollments retrieved successfully"))
}

// GetEnrollmentByID retrieves an enrollment
// @Summary Get enrollment by ID
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollmentByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "Enrollment")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromEnrollmentDetail(enrollment), "Enrollment retrieved successfully"))
}

// UpdateEnrollment changes an enrollment's course, student or grade
// @Summary Update an enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.EnrollmentRequest true "Enrollment information"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Enrollment, course or student not found"
// @Failure 409 {object} dto.ErrorResponse "Student is already enrolled in this course"
// @Router /enrollments/{id} [put]
func (c *EnrollmentController) UpdateEnrollment(ctx *gin.Context) {
	id, ok := pathID(ctx, "Enrollment")
	if !ok {
		return
	}

	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err, "Invalid enrollment data")
		return
	}

	enrollment, err := c.enrollmentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromEnrollmentDetail(enrollment), "Enrollment updated successfully"))
}

// DeleteEnrollment removes an enrollment
// @Summary Delete an enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse "Enrollment deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := pathID(ctx, "Enrollment")
	if !ok {
		return
	}

	if err := c.enrollmentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Enrollment deleted successfully"))
}

// GetStudentEnrollments lists the enrollments of one student
// @Summary Enrollments of a student
// @Description Students may only read their own enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollments retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not your own record"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /enrollments/student/{id} [get]
func (c *EnrollmentController) GetStudentEnrollments(ctx *gin.Context) {
	id, ok := pathID(ctx, "Student")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListByStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromEnrollmentDetails(enrollments), "Enrollments retrieved successfully"))
}

// GetCourseEnrollments lists the enrollments of one course
// @Summary Enrollments of a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollments retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /enrollments/course/{id} [get]
func (c *EnrollmentController) GetCourseEnrollments(ctx *gin.Context) {
	id, ok := pathID(ctx, "Course")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListByCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromEnrollmentDetails(enrollments), "Enrollments retrieved successfully"))
}
