package models

import "time"

// Department is an academic unit with an optional head instructor
type Department struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Name             string    `json:"name" db:"name" example:"Computer Science"`
	Budget           float64   `json:"budget" db:"budget" example:"350000"`
	StartDate        time.Time `json:"startDate" db:"start_date" example:"2007-09-01T00:00:00Z"`
	HeadInstructorID *int64    `json:"headInstructorId,omitempty" db:"head_instructor_id" example:"3"`
}

// HasHead reports whether a head instructor is set
func (d *Department) HasHead() bool {
	return d.HeadInstructorID != nil
}
