package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// UserRepository stores users
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository over db
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func copyUser(u models.User) models.User {
	u.EnrollmentDate = cloneTime(u.EnrollmentDate)
	u.DateOfBirth = cloneTime(u.DateOfBirth)
	return u
}

func emailTaken(t *tables, email string, exceptID int64) bool {
	for id, u := range t.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.write(ctx, func(t *tables) error {
		email := normalizeEmail(user.Email)
		if emailTaken(t, email, 0) {
			return repositories.ErrDuplicate
		}

		now := time.Now().UTC()
		user.ID = t.nextID()
		user.Email = email
		user.CreatedAt = now
		user.UpdatedAt = now
		t.users[user.ID] = copyUser(*user)
		return nil
	})
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	var found *models.User
	r.db.read(func(t *tables) {
		for _, u := range t.users {
			if match(u) {
				c := copyUser(u)
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) modify(ctx context.Context, id int64, fn func(u *models.User) error) error {
	return r.db.write(ctx, func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return repositories.ErrNotFound
		}
		if err := fn(&u); err != nil {
			return err
		}
		u.UpdatedAt = time.Now().UTC()
		t.users[id] = copyUser(u)
		return nil
	})
}

// Update overwrites the profile fields and email of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.write(ctx, func(t *tables) error {
		stored, ok := t.users[user.ID]
		if !ok {
			return repositories.ErrNotFound
		}
		email := normalizeEmail(user.Email)
		if emailTaken(t, email, user.ID) {
			return repositories.ErrDuplicate
		}

		stored.Email = email
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.PhoneNumber = user.PhoneNumber
		stored.EnrollmentDate = user.EnrollmentDate
		stored.Bio = user.Bio
		stored.DateOfBirth = user.DateOfBirth
		stored.Address = user.Address
		stored.Company = user.Company
		stored.UpdatedAt = time.Now().UTC()
		t.users[user.ID] = copyUser(stored)

		user.Email = email
		user.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.modify(ctx, id, func(u *models.User) error {
		u.Password = passwordHash
		return nil
	})
}

// UpdateRole changes the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	return r.modify(ctx, id, func(u *models.User) error {
		u.RoleType = role
		return nil
	})
}

// UpdatePhotoURL sets the profile photo location
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error {
	return r.modify(ctx, id, func(u *models.User) error {
		u.PhotoURL = photoURL
		return nil
	})
}

// Delete removes a user with its enrollments and reset tokens
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(t *tables) error {
		if _, ok := t.users[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(t.users, id)
		for eid, e := range t.enrollments {
			if e.StudentID == id {
				delete(t.enrollments, eid)
			}
		}
		for token, rt := range t.resetTokens {
			if rt.UserID == id {
				delete(t.resetTokens, token)
			}
		}
		return nil
	})
}

func (r *UserRepository) collect(match func(t *tables, u models.User) bool) []*models.User {
	users := []*models.User{}
	r.db.read(func(t *tables) {
		for _, u := range t.users {
			if match(t, u) {
				c := copyUser(u)
				users = append(users, &c)
			}
		}
	})
	return users
}

// ListByRole returns one page of users with role, ordered by name, and the total count
func (r *UserRepository) ListByRole(_ context.Context, role models.RoleType, offset, limit int) ([]*models.User, int64, error) {
	users := r.collect(func(_ *tables, u models.User) bool { return u.RoleType == role })
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})

	total := int64(len(users))
	if limit <= 0 {
		return users, total, nil
	}
	if offset < 0 || offset >= len(users) {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], total, nil
}

// SearchStudents filters students by id, course enrollment and instructor; set filters combine with AND
func (r *UserRepository) SearchStudents(_ context.Context, filter models.StudentFilter) ([]*models.User, error) {
	users := r.collect(func(t *tables, u models.User) bool {
		if u.RoleType != models.RoleStudent {
			return false
		}
		if filter.UserID > 0 && u.ID != filter.UserID {
			return false
		}
		if filter.CourseID > 0 && !enrolledIn(t, u.ID, func(courseID int64) bool { return courseID == filter.CourseID }) {
			return false
		}
		if filter.InstructorID > 0 && !enrolledIn(t, u.ID, func(courseID int64) bool {
			_, ok := t.assignments[assignmentKey{courseID: courseID, instructorID: filter.InstructorID}]
			return ok
		}) {
			return false
		}
		return true
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func enrolledIn(t *tables, studentID int64, course func(courseID int64) bool) bool {
	for _, e := range t.enrollments {
		if e.StudentID == studentID && course(e.CourseID) {
			return true
		}
	}
	return false
}

// CountByRole counts users having role
func (r *UserRepository) CountByRole(_ context.Context, role models.RoleType) (int64, error) {
	var n int64
	r.db.read(func(t *tables) {
		for _, u := range t.users {
			if u.RoleType == role {
				n++
			}
		}
	})
	return n, nil
}
