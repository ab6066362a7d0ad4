package dto

import "github.com/yigit/eduadmin/internal/app/models"

// EnrollmentRequest is the body of enrollment create and update
type EnrollmentRequest struct {
	CourseID  int64         `json:"courseId" example:"10"`
	StudentID int64         `json:"studentId" example:"5"`
	Grade     *models.Grade `json:"grade,omitempty" binding:"omitempty,oneof=A B C D F" example:"A"`
}

// EnrollmentResponse is an enrollment with its student, course and department projected in
type EnrollmentResponse struct {
	ID               int64         `json:"id" example:"1"`
	StudentID        int64         `json:"studentId" example:"5"`
	CourseID         int64         `json:"courseId" example:"10"`
	Grade            *models.Grade `json:"grade" example:"A"`
	StudentFirstName string        `json:"studentFirstName" example:"Jane"`
	StudentLastName  string        `json:"studentLastName" example:"Doe"`
	StudentEmail     string        `json:"studentEmail" example:"jane.doe@example.edu"`
	CourseTitle      string        `json:"courseTitle" example:"Algorithms"`
	CourseCredits    int           `json:"courseCredits" example:"4"`
	DepartmentID     int64         `json:"departmentId" example:"1"`
	DepartmentName   string        `json:"departmentName" example:"Computer Science"`
}

// FromEnrollmentDetail converts a joined enrollment row
func FromEnrollmentDetail(d *models.EnrollmentDetail) EnrollmentResponse {
	return EnrollmentResponse{
		ID:               d.ID,
		StudentID:        d.StudentID,
		CourseID:         d.CourseID,
		Grade:            d.Grade,
		StudentFirstName: d.StudentFirstName,
		StudentLastName:  d.StudentLastName,
		StudentEmail:     d.StudentEmail,
		CourseTitle:      d.CourseTitle,
		CourseCredits:    d.CourseCredits,
		DepartmentID:     d.DepartmentID,
		DepartmentName:   d.DepartmentName,
	}
}

// FromEnrollmentDetails converts a slice of joined rows
func FromEnrollmentDetails(details []*models.EnrollmentDetail) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, FromEnrollmentDetail(d))
	}
	return out
}
