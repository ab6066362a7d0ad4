package dto

import (
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

// UserResponse represents the full profile of a user
type UserResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           string     `json:"role"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	EnrollmentDate *time.Time `json:"enrollmentDate,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	PhotoURL       string     `json:"photoUrl,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Address        string     `json:"address,omitempty"`
	Company        string     `json:"company,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           string(user.RoleType),
		PhoneNumber:    user.PhoneNumber,
		EnrollmentDate: user.EnrollmentDate,
		Bio:            user.Bio,
		PhotoURL:       user.PhotoURL,
		DateOfBirth:    user.DateOfBirth,
		Address:        user.Address,
		Company:        user.Company,
		CreatedAt:      user.CreatedAt,
	}
}

// FromUsers converts a slice of users
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// UpdateProfileRequest represents profile update data. Omitted fields keep their value.
type UpdateProfileRequest struct {
	Email       *string    `json:"email,omitempty" binding:"omitempty,email"`
	FirstName   *string    `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName    *string    `json:"lastName,omitempty" binding:"omitempty,min=1"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Company     *string    `json:"company,omitempty"`
}

// Apply copies the set fields onto user
func (r *UpdateProfileRequest) Apply(user *models.User) {
	if r.Email != nil {
		user.Email = *r.Email
	}
	if r.FirstName != nil {
		user.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		user.LastName = *r.LastName
	}
	if r.PhoneNumber != nil {
		user.PhoneNumber = *r.PhoneNumber
	}
	if r.Bio != nil {
		user.Bio = *r.Bio
	}
	if r.DateOfBirth != nil {
		user.DateOfBirth = r.DateOfBirth
	}
	if r.Address != nil {
		user.Address = *r.Address
	}
	if r.Company != nil {
		user.Company = *r.Company
	}
}
