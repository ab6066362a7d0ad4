package memory

import (
	"context"
	"sort"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// CourseRepository stores courses
type CourseRepository struct {
	db *DB
}

// NewCourseRepository creates a course repository over db
func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course; the department must exist
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.departments[course.DepartmentID]; !ok {
			return repositories.ErrForeignKey
		}
		course.ID = t.nextID()
		t.courses[course.ID] = *course
		return nil
	})
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	var found *models.Course
	r.db.read(func(t *tables) {
		if c, ok := t.courses[id]; ok {
			found = &c
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (r *CourseRepository) collect(match func(t *tables, c models.Course) bool) []*models.Course {
	courses := []*models.Course{}
	r.db.read(func(t *tables) {
		for _, c := range t.courses {
			if match(t, c) {
				c := c
				courses = append(courses, &c)
			}
		}
	})
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Title != courses[j].Title {
			return courses[i].Title < courses[j].Title
		}
		return courses[i].ID < courses[j].ID
	})
	return courses
}

// List returns all courses ordered by title
func (r *CourseRepository) List(context.Context) ([]*models.Course, error) {
	return r.collect(func(*tables, models.Course) bool { return true }), nil
}

// ListNotAssignedTo returns the courses the instructor does not teach yet
func (r *CourseRepository) ListNotAssignedTo(_ context.Context, instructorID int64) ([]*models.Course, error) {
	return r.collect(func(t *tables, c models.Course) bool {
		_, assigned := t.assignments[assignmentKey{courseID: c.ID, instructorID: instructorID}]
		return !assigned
	}), nil
}

// Update overwrites a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.courses[course.ID]; !ok {
			return repositories.ErrNotFound
		}
		if _, ok := t.departments[course.DepartmentID]; !ok {
			return repositories.ErrForeignKey
		}
		t.courses[course.ID] = *course
		return nil
	})
}

// Delete removes a course with its enrollments and assignments
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.courses[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.courses, id)
		for eid, e := range t.enrollments {
			if e.CourseID == id {
				delete(t.enrollments, eid)
			}
		}
		for key := range t.assignments {
			if key.courseID == id {
				delete(t.assignments, key)
			}
		}
		return nil
	})
}

// Count returns the number of courses
func (r *CourseRepository) Count(context.Context) (int64, error) {
	var n int64
	r.db.read(func(t *tables) { n = int64(len(t.courses)) })
	return n, nil
}

// Stats returns per-course student and instructor counts ordered by course ID
func (r *CourseRepository) Stats(context.Context) ([]models.CourseStats, error) {
	stats := []models.CourseStats{}
	r.db.read(func(t *tables) {
		for _, id := range sortedIDs(t.courses) {
			s := models.CourseStats{CourseID: id, Title: t.courses[id].Title}
			for _, e := range t.enrollments {
				if e.CourseID == id {
					s.StudentCount++
				}
			}
			for key := range t.assignments {
				if key.courseID == id {
					s.InstructorCount++
				}
			}
			stats = append(stats, s)
		}
	})
	return stats, nil
}
