package memory

import (
	"context"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// EnrollmentRepository stores enrollments; (student, course) pairs are unique
type EnrollmentRepository struct {
	db *DB
}

// NewEnrollmentRepository creates an enrollment repository over db
func NewEnrollmentRepository(db *DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func copyEnrollment(e models.Enrollment) models.Enrollment {
	e.Grade = cloneGrade(e.Grade)
	return e
}

func checkEnrollment(t *tables, e *models.Enrollment) error {
	if _, ok := t.users[e.StudentID]; !ok {
		return repositories.ErrForeignKey
	}
	if _, ok := t.courses[e.CourseID]; !ok {
		return repositories.ErrForeignKey
	}
	for id, other := range t.enrollments {
		if id != e.ID && other.StudentID == e.StudentID && other.CourseID == e.CourseID {
			return repositories.ErrDuplicate
		}
	}
	return nil
}

// Create inserts an enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.write(ctx, func(t *tables) error {
		enrollment.ID = 0
		if err := checkEnrollment(t, enrollment); err != nil {
			return err
		}
		enrollment.ID = t.nextID()
		t.enrollments[enrollment.ID] = copyEnrollment(*enrollment)
		return nil
	})
}

// GetByID retrieves the bare enrollment row
func (r *EnrollmentRepository) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	var found *models.Enrollment
	r.db.read(func(t *tables) {
		if e, ok := t.enrollments[id]; ok {
			c := copyEnrollment(e)
			found = &c
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// Update overwrites student, course and grade
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.enrollments[enrollment.ID]; !ok {
			return repositories.ErrNotFound
		}
		if err := checkEnrollment(t, enrollment); err != nil {
			return err
		}
		t.enrollments[enrollment.ID] = copyEnrollment(*enrollment)
		return nil
	})
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.enrollments[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.enrollments, id)
		return nil
	})
}

// Count returns the number of enrollments
func (r *EnrollmentRepository) Count(context.Context) (int64, error) {
	var n int64
	r.db.read(func(t *tables) { n = int64(len(t.enrollments)) })
	return n, nil
}

func detailOf(t *tables, e models.Enrollment) *models.EnrollmentDetail {
	d := &models.EnrollmentDetail{Enrollment: copyEnrollment(e)}
	if u, ok := t.users[e.StudentID]; ok {
		d.StudentFirstName = u.FirstName
		d.StudentLastName = u.LastName
		d.StudentEmail = u.Email
	}
	if c, ok := t.courses[e.CourseID]; ok {
		d.CourseTitle = c.Title
		d.CourseCredits = c.Credits
		d.DepartmentID = c.DepartmentID
		if dep, ok := t.departments[c.DepartmentID]; ok {
			d.DepartmentName = dep.Name
		}
	}
	return d
}

// GetDetail retrieves one enrollment projection
func (r *EnrollmentRepository) GetDetail(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	var found *models.EnrollmentDetail
	r.db.read(func(t *tables) {
		if e, ok := t.enrollments[id]; ok {
			found = detailOf(t, e)
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// ListDetails lists enrollment projections ordered by ID
func (r *EnrollmentRepository) ListDetails(_ context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	details := []*models.EnrollmentDetail{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.enrollments) {
			e := t.enrollments[id]
			if filter.StudentID > 0 && e.StudentID != filter.StudentID {
				continue
			}
			if filter.CourseID > 0 && e.CourseID != filter.CourseID {
				continue
			}
			details = append(details, detailOf(t, e))
		}
	})
	return details, nil
}
