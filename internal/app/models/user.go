package models

import (
	"time"
)

// User is an account. Students are users with RoleStudent; instructors also own a User row matched by email.
type User struct {
	ID             int64      `json:"id" db:"id" example:"1"`
	Email          string     `json:"email" db:"email" example:"jane.doe@example.edu"`
	Password       string     `json:"-" db:"password"`
	RoleType       RoleType   `json:"role" db:"role_type" example:"STUDENT"`
	FirstName      string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName       string     `json:"lastName" db:"last_name" example:"Doe"`
	PhoneNumber    string     `json:"phoneNumber" db:"phone_number" example:"+1-555-0100"`
	EnrollmentDate *time.Time `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	Bio            string     `json:"bio" db:"bio"`
	PhotoURL       string     `json:"photoUrl" db:"photo_url"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address        string     `json:"address" db:"address"`
	Company        string     `json:"company" db:"company"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// StudentFilter narrows a student search; zero fields are ignored and set fields combine with AND
type StudentFilter struct {
	UserID       int64
	InstructorID int64
	CourseID     int64
}
