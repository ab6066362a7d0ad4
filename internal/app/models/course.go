package models

// Course belongs to exactly one department
type Course struct {
	ID           int64  `json:"id" db:"id" example:"1"`
	Title        string `json:"title" db:"title" example:"Algorithms"`
	Credits      int    `json:"credits" db:"credits" example:"4"`
	DepartmentID int64  `json:"departmentId" db:"department_id" example:"1"`
}

// CourseStats aggregates enrollment and staffing per course
type CourseStats struct {
	CourseID        int64  `json:"courseId"`
	Title           string `json:"title"`
	StudentCount    int64  `json:"studentCount"`
	InstructorCount int64  `json:"instructorCount"`
}
