package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/db"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

var userColumns = []string{
	"u.id", "u.email", "u.password", "u.role_type", "u.first_name", "u.last_name", "u.phone_number",
	"u.enrollment_date", "u.bio", "u.photo_url", "u.date_of_birth", "u.address", "u.company",
	"u.created_at", "u.updated_at",
}

// UserRepository handles user database operations. Emails are stored lower-cased.
type UserRepository struct {
	pgRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{pgRepository: newPgRepository(database)}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.RoleType, &user.FirstName, &user.LastName, &user.PhoneNumber,
		&user.EnrollmentDate, &user.Bio, &user.PhotoURL, &user.DateOfBirth, &user.Address, &user.Company,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// Create inserts a user and fills its ID and timestamps. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query, args, err := r.sb.Insert("users").
		Columns("email", "password", "role_type", "first_name", "last_name", "phone_number",
			"enrollment_date", "bio", "photo_url", "date_of_birth", "address", "company").
		Values(user.Email, user.Password, user.RoleType, user.FirstName, user.LastName, user.PhoneNumber,
			user.EnrollmentDate, user.Bio, user.PhotoURL, user.DateOfBirth, user.Address, user.Company).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", translateError(err))
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users u").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}
	return scanUser(r.conn(ctx).QueryRow(ctx, query, args...))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("lower(u.email) = lower(?)", strings.TrimSpace(email)))
}

// Update overwrites the profile fields and email of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.UpdatedAt = time.Now().UTC()

	return r.exec(ctx, r.sb.Update("users").
		SetMap(map[string]interface{}{
			"email":           user.Email,
			"first_name":      user.FirstName,
			"last_name":       user.LastName,
			"phone_number":    user.PhoneNumber,
			"enrollment_date": user.EnrollmentDate,
			"bio":             user.Bio,
			"date_of_birth":   user.DateOfBirth,
			"address":         user.Address,
			"company":         user.Company,
			"updated_at":      user.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": user.ID}), "update user")
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}), "update user password")
}

// UpdateRole changes the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	return r.exec(ctx, r.sb.Update("users").
		Set("role_type", role).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}), "update user role")
}

// UpdatePhotoURL sets the profile photo location
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error {
	return r.exec(ctx, r.sb.Update("users").
		Set("photo_url", photoURL).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}), "update user photo")
}

// Delete removes a user; enrollments and reset tokens go with it through ON DELETE CASCADE
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete("users").Where(squirrel.Eq{"id": id}), "delete user")
}

// ListByRole returns one page of users with the given role and the total count
func (r *UserRepository) ListByRole(ctx context.Context, role models.RoleType, offset, limit int) ([]*models.User, int64, error) {
	total, err := r.CountByRole(ctx, role)
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		return []*models.User{}, total, nil
	}

	users, err := r.list(ctx, r.listByRoleQuery(role, offset, limit))
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) listByRoleQuery(role models.RoleType, offset, limit int) squirrel.SelectBuilder {
	builder := r.sb.Select(userColumns...).
		From("users u").
		Where(squirrel.Eq{"u.role_type": role}).
		OrderBy("u.last_name ASC", "u.first_name ASC", "u.id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset))
	}
	return builder
}

// SearchStudents filters students by id, by course enrollment and by enrollment in any course
// taught by an instructor. Set filters are combined with AND.
func (r *UserRepository) SearchStudents(ctx context.Context, filter models.StudentFilter) ([]*models.User, error) {
	return r.list(ctx, r.searchStudentsQuery(filter))
}

func (r *UserRepository) searchStudentsQuery(filter models.StudentFilter) squirrel.SelectBuilder {
	builder := r.sb.Select(userColumns...).
		From("users u").
		Where(squirrel.Eq{"u.role_type": models.RoleStudent}).
		OrderBy("u.id ASC")

	if filter.UserID > 0 {
		builder = builder.Where(squirrel.Eq{"u.id": filter.UserID})
	}
	if filter.CourseID > 0 {
		builder = builder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = u.id AND e.course_id = ?)", filter.CourseID))
	}
	if filter.InstructorID > 0 {
		builder = builder.Where(squirrel.Expr(
			`EXISTS (SELECT 1 FROM enrollments e
				JOIN course_instructors ci ON ci.course_id = e.course_id
				WHERE e.student_id = u.id AND ci.instructor_id = ?)`, filter.InstructorID))
	}
	return builder
}

// CountByRole counts users having role
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role_type": role}), "users")
}

func (r *UserRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.User, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying users")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
