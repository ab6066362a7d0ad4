package models

import "time"

// Instructor is a staff record. Its login account is the User sharing its email.
type Instructor struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	FirstName    string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName     string    `json:"lastName" db:"last_name" example:"Lovelace"`
	Email        string    `json:"email" db:"email" example:"ada@example.edu"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number"`
	HireDate     time.Time `json:"hireDate" db:"hire_date"`
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"`
}

// CourseAssignment links an instructor to a course
type CourseAssignment struct {
	CourseID     int64     `json:"courseId" db:"course_id"`
	InstructorID int64     `json:"instructorId" db:"instructor_id"`
	AssignedAt   time.Time `json:"assignedAt" db:"assigned_at"`
}
