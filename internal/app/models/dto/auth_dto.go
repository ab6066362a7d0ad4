package dto

import (
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane.doe@example.edu"`
	Password string `json:"password" binding:"required" example:"Secret123"`
}

// RegisterRequest is bound from JSON or from a multipart form carrying an optional "photo" file
type RegisterRequest struct {
	Email          string          `json:"email" form:"email" binding:"required,email"`
	Password       string          `json:"password" form:"password" binding:"required,min=8"`
	FirstName      string          `json:"firstName" form:"firstName" binding:"required,notblank"`
	LastName       string          `json:"lastName" form:"lastName" binding:"required,notblank"`
	RoleType       models.RoleType `json:"role" form:"role" binding:"required,oneof=STUDENT INSTRUCTOR" example:"STUDENT"`
	PhoneNumber    string          `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
	DepartmentID   *int64          `json:"departmentId,omitempty" form:"departmentId" binding:"omitempty,gt=0"`
	HireDate       *time.Time      `json:"hireDate,omitempty" form:"hireDate" time_format:"2006-01-02"`
	EnrollmentDate *time.Time      `json:"enrollmentDate,omitempty" form:"enrollmentDate" time_format:"2006-01-02"`
	DateOfBirth    *time.Time      `json:"dateOfBirth,omitempty" form:"dateOfBirth" time_format:"2006-01-02"`
	Bio            string          `json:"bio" form:"bio"`
	Address        string          `json:"address" form:"address"`
	Company        string          `json:"company" form:"company"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"7200"`
}

// UserEnvelope is the user summary returned with a token
type UserEnvelope struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"jane.doe@example.edu"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
	Role      string `json:"role" example:"STUDENT"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserEnvelope  `json:"user"`
}

// NewUserEnvelope builds the summary returned with a token
func NewUserEnvelope(user *models.User) UserEnvelope {
	return UserEnvelope{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.RoleType),
	}
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordResponse hands the reset token straight to the caller
type ForgotPasswordResponse struct {
	ResetToken string    `json:"resetToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ResetPasswordRequest redeems a reset token
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
