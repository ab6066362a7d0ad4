package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/middleware"
)

// InstructorController handles instructor endpoints and course assignment
type InstructorController struct {
	instructorService *services.InstructorService
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService *services.InstructorService) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
	}
}

// CreateInstructor handles instructor creation
// @Summary Create a new instructor
// @Description Creates the instructor and its INSTRUCTOR account. The department head is claimed when vacant.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InstructorRequest true "Instructor information"
// @Success 201 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Email is already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors [post]
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	var req dto.InstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err, "Invalid instructor data")
		return
	}

	instructor, err := c.instructorService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromInstructor(instructor), "Instructor created successfully"))
}

// GetInstructorByID retrieves an instructor
// @Summary Get instructor by ID
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid instructor ID"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructorByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "Instructor")
	if !ok {
		return
	}

	instructor, err := c.instructorService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromInstructor(instructor), "Instructor retrieved successfully"))
}

// GetAllInstructors lists instructors
// @Summary Get all instructors
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.InstructorResponse} "Instructors retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors [get]
func (c *InstructorController) GetAllInstructors(ctx *gin.Context) {
	instructors, err := c.instructorService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromInstructors(instructors), "Instructors retrieved successfully"))
}

// UpdateInstructor updates an instructor and the linked account
// @Summary Update an instructor
// @Description A password of "********" or an empty one keeps the current password
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param request body dto.InstructorRequest true "Instructor information"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Instructor or department not found"
// @Failure 409 {object} dto.ErrorResponse "Email is already registered"
// @Router /instructors/{id} [put]
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	id, ok := pathID(ctx, "Instructor")
	if !ok {
		return
	}

	var req dto.InstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err, "Invalid instructor data")
		return
	}

	instructor, err := c.instructorService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromInstructor(instructor), "Instructor updated successfully"))
}

// DeleteInstructor deletes an instructor, its account and any headship it holds
// @Summary Delete an instructor
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse "Instructor deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [delete]
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	id, ok := pathID(ctx, "Instructor")
	if !ok {
		return
	}

	if err := c.instructorService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Instructor deleted successfully"))
}

// GetAvailableCourses lists the courses not yet assigned to the instructor
// @Summary Courses available to an instructor
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Available courses retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id}/available-courses [get]
func (c *InstructorController) GetAvailableCourses(ctx *gin.Context) {
	id, ok := pathID(ctx, "Instructor")
	if !ok {
		return
	}

	courses, err := c.instructorService.AvailableCourses(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCourses(courses), "Available courses retrieved successfully"))
}

// AssignCourse assigns a course to an instructor
// @Summary Assign a course to an instructor
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignCourseRequest true "Instructor and course"
// @Success 201 {object} dto.APIResponse "Course assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Instructor or course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already assigned"
// @Router /instructors/courses/assign [post]
func (c *InstructorController) AssignCourse(ctx *gin.Context) {
	var req dto.AssignCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err, "Invalid assignment data")
		return
	}

	if err := c.instructorService.AssignCourse(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(req, "Course assigned successfully"))
}
