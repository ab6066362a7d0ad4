package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// InstructorRepository stores instructors and their course assignments
type InstructorRepository struct {
	db *DB
}

// NewInstructorRepository creates an instructor repository over db
func NewInstructorRepository(db *DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

func copyInstructor(in models.Instructor) models.Instructor {
	in.DepartmentID = cloneInt64(in.DepartmentID)
	return in
}

func checkInstructor(t *tables, in *models.Instructor) error {
	for id, other := range t.instructors {
		if id != in.ID && other.Email == in.Email {
			return repositories.ErrDuplicate
		}
	}
	if in.DepartmentID != nil {
		if _, ok := t.departments[*in.DepartmentID]; !ok {
			return repositories.ErrForeignKey
		}
	}
	return nil
}

// Create inserts an instructor
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	return r.db.write(ctx, func(t *tables) error {
		instructor.Email = normalizeEmail(instructor.Email)
		if err := checkInstructor(t, instructor); err != nil {
			return err
		}
		instructor.ID = t.nextID()
		t.instructors[instructor.ID] = copyInstructor(*instructor)
		return nil
	})
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(_ context.Context, id int64) (*models.Instructor, error) {
	var found *models.Instructor
	r.db.read(func(t *tables) {
		if in, ok := t.instructors[id]; ok {
			c := copyInstructor(in)
			found = &c
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// List returns all instructors ordered by name
func (r *InstructorRepository) List(context.Context) ([]*models.Instructor, error) {
	instructors := []*models.Instructor{}
	r.db.read(func(t *tables) {
		for _, in := range t.instructors {
			c := copyInstructor(in)
			instructors = append(instructors, &c)
		}
	})
	sort.Slice(instructors, func(i, j int) bool {
		a, b := instructors[i], instructors[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return instructors, nil
}

// Update overwrites an instructor
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.instructors[instructor.ID]; !ok {
			return repositories.ErrNotFound
		}
		instructor.Email = normalizeEmail(instructor.Email)
		if err := checkInstructor(t, instructor); err != nil {
			return err
		}
		t.instructors[instructor.ID] = copyInstructor(*instructor)
		return nil
	})
}

// Delete removes an instructor, its assignments and any headship pointing at it
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.instructors[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.instructors, id)
		clearHead(t, id)
		for key := range t.assignments {
			if key.instructorID == id {
				delete(t.assignments, key)
			}
		}
		return nil
	})
}

// AssignCourse links an instructor to a course
func (r *InstructorRepository) AssignCourse(ctx context.Context, instructorID, courseID int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.instructors[instructorID]; !ok {
			return repositories.ErrForeignKey
		}
		if _, ok := t.courses[courseID]; !ok {
			return repositories.ErrForeignKey
		}
		key := assignmentKey{courseID: courseID, instructorID: instructorID}
		if _, ok := t.assignments[key]; ok {
			return repositories.ErrDuplicate
		}
		t.assignments[key] = time.Now().UTC()
		return nil
	})
}

// Count returns the number of instructors
func (r *InstructorRepository) Count(context.Context) (int64, error) {
	var n int64
	r.db.read(func(t *tables) { n = int64(len(t.instructors)) })
	return n, nil
}
