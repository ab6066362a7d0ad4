package dto

import (
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	Email          string     `json:"email" binding:"required,email"`
	Password       string     `json:"password" binding:"required,min=8"`
	FirstName      string     `json:"firstName" binding:"required,notblank"`
	LastName       string     `json:"lastName" binding:"required,notblank"`
	PhoneNumber    string     `json:"phoneNumber" binding:"omitempty,phone"`
	EnrollmentDate *time.Time `json:"enrollmentDate,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Address        string     `json:"address"`
	Bio            string     `json:"bio"`
}

// ToModel builds the student user the request describes, without the password
func (r *CreateStudentRequest) ToModel() *models.User {
	return &models.User{
		Email:          r.Email,
		RoleType:       models.RoleStudent,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		PhoneNumber:    r.PhoneNumber,
		EnrollmentDate: r.EnrollmentDate,
		DateOfBirth:    r.DateOfBirth,
		Address:        r.Address,
		Bio:            r.Bio,
	}
}

// UpdateStudentRequest replaces the editable fields of a student
type UpdateStudentRequest struct {
	Email          string     `json:"email" binding:"required,email"`
	FirstName      string     `json:"firstName" binding:"required,notblank"`
	LastName       string     `json:"lastName" binding:"required,notblank"`
	PhoneNumber    string     `json:"phoneNumber" binding:"omitempty,phone"`
	EnrollmentDate *time.Time `json:"enrollmentDate,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Address        string     `json:"address"`
	Bio            string     `json:"bio"`
}

// Apply copies the request onto user
func (r *UpdateStudentRequest) Apply(user *models.User) {
	user.Email = r.Email
	user.FirstName = r.FirstName
	user.LastName = r.LastName
	user.PhoneNumber = r.PhoneNumber
	user.EnrollmentDate = r.EnrollmentDate
	user.DateOfBirth = r.DateOfBirth
	user.Address = r.Address
	user.Bio = r.Bio
}

// StudentSearchRequest filters students; set filters combine with AND
type StudentSearchRequest struct {
	UserID       int64 `form:"userid" binding:"omitempty,gt=0"`
	InstructorID int64 `form:"instructorId" binding:"omitempty,gt=0"`
	CourseID     int64 `form:"courseId" binding:"omitempty,gt=0"`
}

// StudentListRequest pages through students
type StudentListRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students []UserResponse `json:"students"`
	PaginationInfo
}
