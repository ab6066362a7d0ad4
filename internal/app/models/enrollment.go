package models

// Enrollment records a student taking a course. (StudentID, CourseID) is unique.
type Enrollment struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"studentId" db:"student_id"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	Grade     *Grade `json:"grade,omitempty" db:"grade"`
}

// EnrollmentDetail is an enrollment joined with its student, course and department
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string
	StudentLastName  string
	StudentEmail     string
	CourseTitle      string
	CourseCredits    int
	DepartmentID     int64
	DepartmentName   string
}

// EnrollmentFilter narrows an enrollment listing; zero fields are ignored
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
}
