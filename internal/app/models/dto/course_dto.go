package dto

import "github.com/yigit/eduadmin/internal/app/models"

// CourseRequest is the body of course create and update
type CourseRequest struct {
	Title        string `json:"title" binding:"required,notblank,max=100" example:"Algorithms"`
	Credits      int    `json:"credits" binding:"gte=0" example:"4"`
	DepartmentID int64  `json:"departmentId" binding:"required,gt=0" example:"1"`
}

// ToModel builds the course the request describes
func (r *CourseRequest) ToModel(id int64) *models.Course {
	return &models.Course{
		ID:           id,
		Title:        r.Title,
		Credits:      r.Credits,
		DepartmentID: r.DepartmentID,
	}
}

// CourseResponse represents course information
type CourseResponse struct {
	ID           int64  `json:"id" example:"1"`
	Title        string `json:"title" example:"Algorithms"`
	Credits      int    `json:"credits" example:"4"`
	DepartmentID int64  `json:"departmentId" example:"1"`
}

// FromCourse converts a models.Course to a CourseResponse
func FromCourse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Credits:      c.Credits,
		DepartmentID: c.DepartmentID,
	}
}

// FromCourses converts a slice of courses
func FromCourses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}
