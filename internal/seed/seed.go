package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/eduadmin/internal/app/models"
	appRepos "github.com/yigit/eduadmin/internal/app/repositories"
	appServices "github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/pkg/auth"
)

// ErrAdminExists is returned by CreateAdmin when the email is taken
var ErrAdminExists = errors.New("a user with this email already exists")

// CreateDefaultData creates the configured admin account and a starter department.
// Existing rows are left alone, so running it on every start is safe.
func CreateDefaultData(ctx context.Context, stores appServices.Stores, adminEmail, adminPassword string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin/departments)...")
	var finalErr error

	if adminEmail != "" && adminPassword != "" {
		if _, err := CreateAdmin(ctx, stores.Users, adminEmail, adminPassword, "System", "Administrator"); err != nil {
			if !errors.Is(err, ErrAdminExists) {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			}
		} else {
			lgr.Info().Str("email", adminEmail).Msg("Admin user created")
		}
	}

	departments, err := stores.Departments.List(ctx)
	if err != nil {
		return errors.Join(finalErr, fmt.Errorf("error listing departments: %w", err))
	}
	if len(departments) == 0 {
		general := &appModels.Department{
			Name:      "General Studies",
			Budget:    0,
			StartDate: time.Now().UTC().Truncate(24 * time.Hour),
		}
		if err := stores.Departments.Create(ctx, general); err != nil {
			lgr.Error().Err(err).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

// CreateAdmin adds an ADMIN user; it fails with ErrAdminExists when the email is taken
func CreateAdmin(ctx context.Context, users appServices.UserStore, email, password, firstName, lastName string) (*appModels.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, appRepos.ErrNotFound) {
		return nil, fmt.Errorf("error checking admin email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	admin := &appModels.User{
		Email:          email,
		Password:       hash,
		RoleType:       appModels.RoleAdmin,
		FirstName:      firstName,
		LastName:       lastName,
		EnrollmentDate: &now,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, appRepos.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("error creating admin: %w", err)
	}
	return admin, nil
}
