package memory

import (
	"context"
	"sort"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// DepartmentRepository stores departments
type DepartmentRepository struct {
	db *DB
}

// NewDepartmentRepository creates a department repository over db
func NewDepartmentRepository(db *DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func copyDepartment(d models.Department) models.Department {
	d.HeadInstructorID = cloneInt64(d.HeadInstructorID)
	return d
}

func checkHead(t *tables, head *int64) error {
	if head == nil {
		return nil
	}
	if _, ok := t.instructors[*head]; !ok {
		return repositories.ErrForeignKey
	}
	return nil
}

// Create inserts a department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.write(ctx, func(t *tables) error {
		if err := checkHead(t, department.HeadInstructorID); err != nil {
			return err
		}
		department.ID = t.nextID()
		t.departments[department.ID] = copyDepartment(*department)
		return nil
	})
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(_ context.Context, id int64) (*models.Department, error) {
	var found *models.Department
	r.db.read(func(t *tables) {
		if d, ok := t.departments[id]; ok {
			c := copyDepartment(d)
			found = &c
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// List returns all departments ordered by name
func (r *DepartmentRepository) List(context.Context) ([]*models.Department, error) {
	departments := []*models.Department{}
	r.db.read(func(t *tables) {
		for _, d := range t.departments {
			c := copyDepartment(d)
			departments = append(departments, &c)
		}
	})
	sort.Slice(departments, func(i, j int) bool {
		if departments[i].Name != departments[j].Name {
			return departments[i].Name < departments[j].Name
		}
		return departments[i].ID < departments[j].ID
	})
	return departments, nil
}

// Update overwrites a department
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.departments[department.ID]; !ok {
			return repositories.ErrNotFound
		}
		if err := checkHead(t, department.HeadInstructorID); err != nil {
			return err
		}
		t.departments[department.ID] = copyDepartment(*department)
		return nil
	})
}

// Delete removes a department; attached courses restrict it, attached instructors lose their department
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.departments[id]; !ok {
			return repositories.ErrNotFound
		}
		for _, c := range t.courses {
			if c.DepartmentID == id {
				return repositories.ErrForeignKey
			}
		}
		for iid, in := range t.instructors {
			if in.DepartmentID != nil && *in.DepartmentID == id {
				in.DepartmentID = nil
				t.instructors[iid] = in
			}
		}
		delete(t.departments, id)
		return nil
	})
}

func (r *DepartmentRepository) setHeadIf(ctx context.Context, departmentID int64, cond func(models.Department) bool, head *int64) (bool, error) {
	changed := false
	err := r.db.write(ctx, func(t *tables) error {
		d, ok := t.departments[departmentID]
		if !ok || !cond(d) {
			return nil
		}
		d.HeadInstructorID = cloneInt64(head)
		t.departments[departmentID] = d
		changed = true
		return nil
	})
	return changed, err
}

// ClaimHead sets the head only when the department has none
func (r *DepartmentRepository) ClaimHead(ctx context.Context, departmentID, instructorID int64) (bool, error) {
	return r.setHeadIf(ctx, departmentID, func(d models.Department) bool { return d.HeadInstructorID == nil }, &instructorID)
}

// ReleaseHead clears the head only when it is instructorID
func (r *DepartmentRepository) ReleaseHead(ctx context.Context, departmentID, instructorID int64) (bool, error) {
	return r.setHeadIf(ctx, departmentID, func(d models.Department) bool {
		return d.HeadInstructorID != nil && *d.HeadInstructorID == instructorID
	}, nil)
}

// ClearHeadForInstructor clears every department headed by instructorID
func (r *DepartmentRepository) ClearHeadForInstructor(ctx context.Context, instructorID int64) error {
	return r.db.write(ctx, func(t *tables) error {
		clearHead(t, instructorID)
		return nil
	})
}

func clearHead(t *tables, instructorID int64) {
	for id, d := range t.departments {
		if d.HeadInstructorID != nil && *d.HeadInstructorID == instructorID {
			d.HeadInstructorID = nil
			t.departments[id] = d
		}
	}
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(context.Context) (int64, error) {
	var n int64
	r.db.read(func(t *tables) { n = int64(len(t.departments)) })
	return n, nil
}
