package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
	"github.com/yigit/eduadmin/internal/pkg/auth"
	"github.com/yigit/eduadmin/internal/pkg/filestorage"
)

const profilePhotoDir = "profile-photos"

// AuthService handles registration, login, the caller's profile and password resets
type AuthService struct {
	tx             Transactor
	users          UserStore
	instructors    *InstructorService
	resets         *PasswordResets
	jwtService     *auth.JWTService
	storage        filestorage.FileStorage
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	stores Stores,
	instructors *InstructorService,
	resets *PasswordResets,
	jwtService *auth.JWTService,
	storage filestorage.FileStorage,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		tx:             stores.Tx,
		users:          stores.Users,
		instructors:    instructors,
		resets:         resets,
		jwtService:     jwtService,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register creates an account and signs the caller in. Instructors also get an instructor record
// in the same transaction. A photo that cannot be stored is dropped.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, photo *multipart.FileHeader) (*dto.AuthResponse, error) {
	switch req.RoleType {
	case models.RoleStudent:
	case models.RoleInstructor:
		if req.DepartmentID == nil {
			return nil, apperrors.NewValidationError("departmentId is required for instructors")
		}
	default:
		return nil, apperrors.NewValidationError("role must be STUDENT or INSTRUCTOR")
	}

	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("Email is already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Password:       hash,
		RoleType:       req.RoleType,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		EnrollmentDate: req.EnrollmentDate,
		Bio:            req.Bio,
		DateOfBirth:    req.DateOfBirth,
		Address:        req.Address,
		Company:        req.Company,
	}
	user.PhotoURL = s.savePhotoOrNothing(ctx, photo)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.NewConflictError("Email is already registered")
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if req.RoleType != models.RoleInstructor {
			return nil
		}
		hireDate := time.Now().UTC()
		if req.HireDate != nil {
			hireDate = *req.HireDate
		}
		return s.instructors.create(ctx, &models.Instructor{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        email,
			PhoneNumber:  req.PhoneNumber,
			HireDate:     hireDate,
			DepartmentID: req.DepartmentID,
		}, req.Password)
	})
	if err != nil {
		if user.PhotoURL != "" {
			s.deletePhoto(ctx, user.PhotoURL)
		}
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.RoleType)).Msg("User registered")
	return s.authResponse(user)
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewAuthError("Invalid credentials")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userId", user.ID).Msg("Login with wrong password")
		return nil, apperrors.NewAuthError("Invalid credentials")
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserEnvelope(user),
	}, nil
}

// Me returns the profile of the calling user
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile fields.
// Instructors change their email through the instructor record, which owns the link.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}

	previousEmail := user.Email
	req.Apply(user)
	user.Email = normalizeEmail(user.Email)

	if err := requireText(user.FirstName, "firstName"); err != nil {
		return nil, err
	}
	if err := requireText(user.LastName, "lastName"); err != nil {
		return nil, err
	}
	if user.RoleType == models.RoleInstructor && user.Email != previousEmail {
		return nil, apperrors.NewValidationError("instructors change their email through their instructor record")
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email is already registered")
		}
		return nil, lookupError(err, "User")
	}
	return user, nil
}

// UpdatePhoto replaces the caller's profile photo
func (s *AuthService) UpdatePhoto(ctx context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}

	contentType, err := filestorage.ValidateImage(photo, s.maxUploadBytes)
	if err != nil {
		if errors.Is(err, filestorage.ErrInvalidImage) {
			return nil, apperrors.NewValidationError("photo must be an image of at most " +
				strconv.FormatInt(s.maxUploadBytes>>20, 10) + " MB").WithInner(err.Error())
		}
		return nil, err
	}

	url, err := s.storage.Save(ctx, photo, profilePhotoDir, contentType)
	if err != nil {
		return nil, fmt.Errorf("error saving photo: %w", err)
	}
	if err := s.users.UpdatePhotoURL(ctx, userID, url); err != nil {
		s.deletePhoto(ctx, url)
		return nil, lookupError(err, "User")
	}

	if user.PhotoURL != "" {
		s.deletePhoto(ctx, user.PhotoURL)
	}
	user.PhotoURL = url
	return user, nil
}

// savePhotoOrNothing stores photo and returns its URL, or "" when there is none or it fails
func (s *AuthService) savePhotoOrNothing(ctx context.Context, photo *multipart.FileHeader) string {
	if photo == nil {
		return ""
	}
	contentType, err := filestorage.ValidateImage(photo, s.maxUploadBytes)
	if err != nil {
		s.logger.Warn().Err(err).Str("filename", photo.Filename).Msg("Registration photo rejected")
		return ""
	}
	url, err := s.storage.Save(ctx, photo, profilePhotoDir, contentType)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", photo.Filename).Msg("Registration photo could not be saved")
		return ""
	}
	return url
}

func (s *AuthService) deletePhoto(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to delete photo")
	}
}

// ForgotPassword issues a reset token for the account and returns it to the caller
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, lookupError(err, "User")
	}

	token, err := s.resets.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ForgotPasswordResponse{
		ResetToken: token.Token,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// ResetPassword sets a new password if the token is valid for the account
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return lookupError(err, "User")
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.resets.Redeem(ctx, user.ID, req.Token, req.NewPassword)
	})
}
