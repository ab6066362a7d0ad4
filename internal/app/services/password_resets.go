package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
	"github.com/yigit/eduadmin/internal/pkg/auth"
)

const maxTokenAttempts = 3

var errInvalidResetToken = apperrors.NewValidationError("Invalid or expired reset token")

// PasswordResets issues and redeems single-use password reset tokens
type PasswordResets struct {
	tokens ResetTokenStore
	users  UserStore
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewPasswordResets creates the reset token flow; tokens live for ttl
func NewPasswordResets(tokens ResetTokenStore, users UserStore, ttl time.Duration, logger zerolog.Logger) *PasswordResets {
	return &PasswordResets{
		tokens: tokens,
		users:  users,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Issue stores a fresh token for userID
func (p *PasswordResets) Issue(ctx context.Context, userID int64) (*models.PasswordResetToken, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		value, err := auth.GenerateResetToken()
		if err != nil {
			return nil, err
		}

		token := &models.PasswordResetToken{
			Token:     value,
			UserID:    userID,
			ExpiresAt: p.now().Add(p.ttl).UTC(),
		}
		err = p.tokens.Save(ctx, token)
		if errors.Is(err, repositories.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error saving reset token: %w", err)
		}

		p.logger.Info().Int64("userId", userID).Time("expiresAt", token.ExpiresAt).Msg("Password reset token issued")
		return token, nil
	}
	return nil, errors.New("could not generate a unique reset token")
}

// Redeem sets newPassword for userID and consumes token. It must run inside a transaction.
// A token of another user is rejected without being consumed.
func (p *PasswordResets) Redeem(ctx context.Context, userID int64, token, newPassword string) error {
	record, err := p.tokens.Get(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("error loading reset token: %w", err)
	}
	if record.UserID != userID || record.Used || record.Expired(p.now()) {
		return errInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := p.users.UpdatePassword(ctx, userID, hash); err != nil {
		return lookupError(err, "User")
	}

	// Consumed last: a token store outside the transaction cannot be rolled back.
	// Losing the race returns an error, which rolls the password update back.
	consumed, err := p.tokens.MarkUsed(ctx, token)
	if err != nil {
		return fmt.Errorf("error consuming reset token: %w", err)
	}
	if !consumed {
		return errInvalidResetToken
	}
	p.logger.Info().Int64("userId", userID).Msg("Password reset")
	return nil
}

// ChangePassword sets a new password by issuing a token and redeeming it at once
func (p *PasswordResets) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	token, err := p.Issue(ctx, userID)
	if err != nil {
		return err
	}
	return p.Redeem(ctx, userID, token.Token, newPassword)
}

// Purge removes expired tokens
func (p *PasswordResets) Purge(ctx context.Context) (int64, error) {
	return p.tokens.DeleteExpired(ctx)
}
