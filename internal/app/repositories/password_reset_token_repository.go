package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/db"
)

// PasswordResetTokenRepository manages password reset tokens in the database
type PasswordResetTokenRepository struct {
	pgRepository
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(database *db.PostgresDB) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{pgRepository: newPgRepository(database)}
}

// Save stores a new token
func (r *PasswordResetTokenRepository) Save(ctx context.Context, token *models.PasswordResetToken) error {
	query, args, err := r.sb.Insert("password_reset_tokens").
		Columns("token", "user_id", "expires_at", "used").
		Values(token.Token, token.UserID, token.ExpiresAt, token.Used).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create reset token query: %w", err)
	}

	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating password reset token: %w", translateError(err))
	}
	return nil
}

// Get retrieves a token, used or not
func (r *PasswordResetTokenRepository) Get(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query, args, err := r.sb.Select("token", "user_id", "expires_at", "used").
		From("password_reset_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get reset token query: %w", err)
	}

	t := &models.PasswordResetToken{}
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Used); err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

// MarkUsed flips an unused token to used and reports whether this call did it
func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	err := r.exec(ctx, r.sb.Update("password_reset_tokens").
		Set("used", true).
		Where(squirrel.Eq{"token": token, "used": false}), "mark reset token used")
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired removes tokens past their expiry and returns how many went
func (r *PasswordResetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Delete("password_reset_tokens").
		Where(squirrel.Lt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired tokens query: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired password reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
