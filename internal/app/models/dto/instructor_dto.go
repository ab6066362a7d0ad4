package dto

import (
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

// PasswordUnchanged is the placeholder clients send back to keep the current password
const PasswordUnchanged = "********"

// InstructorRequest is the body of instructor create and update.
// On update an empty Password or PasswordUnchanged keeps the current one.
type InstructorRequest struct {
	FirstName    string    `json:"firstName" binding:"required,notblank" example:"Ada"`
	LastName     string    `json:"lastName" binding:"required,notblank" example:"Lovelace"`
	Email        string    `json:"email" binding:"required,email" example:"ada@example.edu"`
	PhoneNumber  string    `json:"phoneNumber" binding:"omitempty,phone" example:"+1-555-0100"`
	HireDate     time.Time `json:"hireDate" binding:"required" example:"2020-01-15T00:00:00Z"`
	DepartmentID *int64    `json:"departmentId,omitempty" binding:"omitempty,gt=0" example:"1"`
	Password     string    `json:"password,omitempty" example:"Secret123"`
}

// ToModel builds the instructor the request describes
func (r *InstructorRequest) ToModel(id int64) *models.Instructor {
	return &models.Instructor{
		ID:           id,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		HireDate:     r.HireDate,
		DepartmentID: r.DepartmentID,
	}
}

// InstructorResponse represents the response for an instructor
type InstructorResponse struct {
	ID           int64     `json:"id" example:"1"`
	FirstName    string    `json:"firstName" example:"Ada"`
	LastName     string    `json:"lastName" example:"Lovelace"`
	Email        string    `json:"email" example:"ada@example.edu"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	HireDate     time.Time `json:"hireDate"`
	DepartmentID *int64    `json:"departmentId" example:"1"`
}

// FromInstructor converts a models.Instructor to an InstructorResponse
func FromInstructor(in *models.Instructor) InstructorResponse {
	return InstructorResponse{
		ID:           in.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		HireDate:     in.HireDate,
		DepartmentID: in.DepartmentID,
	}
}

// FromInstructors converts a slice of instructors
func FromInstructors(instructors []*models.Instructor) []InstructorResponse {
	out := make([]InstructorResponse, 0, len(instructors))
	for _, in := range instructors {
		out = append(out, FromInstructor(in))
	}
	return out
}

// AssignCourseRequest links an instructor to a course
type AssignCourseRequest struct {
	InstructorID int64 `json:"instructorId" binding:"required,gt=0" example:"1"`
	CourseID     int64 `json:"courseId" binding:"required,gt=0" example:"2"`
}
