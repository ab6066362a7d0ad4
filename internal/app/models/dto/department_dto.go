package dto

import (
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

// DepartmentRequest is the body of department create and update
type DepartmentRequest struct {
	Name             string    `json:"name" binding:"required,notblank,max=100" example:"Computer Science"`
	Budget           float64   `json:"budget" binding:"gte=0" example:"350000"`
	StartDate        time.Time `json:"startDate" binding:"required" example:"2007-09-01T00:00:00Z"`
	HeadInstructorID *int64    `json:"headInstructorId,omitempty" binding:"omitempty,gt=0" example:"3"`
}

// ToModel builds the department the request describes
func (r *DepartmentRequest) ToModel(id int64) *models.Department {
	return &models.Department{
		ID:               id,
		Name:             r.Name,
		Budget:           r.Budget,
		StartDate:        r.StartDate,
		HeadInstructorID: r.HeadInstructorID,
	}
}

// DepartmentResponse represents department information
type DepartmentResponse struct {
	ID               int64     `json:"id" example:"1"`
	Name             string    `json:"name" example:"Computer Science"`
	Budget           float64   `json:"budget" example:"350000"`
	StartDate        time.Time `json:"startDate"`
	HeadInstructorID *int64    `json:"headInstructorId" example:"3"`
}

// FromDepartment converts a models.Department to a DepartmentResponse
func FromDepartment(d *models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:               d.ID,
		Name:             d.Name,
		Budget:           d.Budget,
		StartDate:        d.StartDate,
		HeadInstructorID: d.HeadInstructorID,
	}
}

// FromDepartments converts a slice of departments
func FromDepartments(departments []*models.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, FromDepartment(d))
	}
	return out
}
