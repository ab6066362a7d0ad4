package memory

import (
	"context"
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

// ResetTokenStore stores password reset tokens
type ResetTokenStore struct {
	db *DB
}

// NewResetTokenStore creates a reset token store over db
func NewResetTokenStore(db *DB) *ResetTokenStore {
	return &ResetTokenStore{db: db}
}

// Save stores a new token
func (s *ResetTokenStore) Save(ctx context.Context, token *models.PasswordResetToken) error {
	return s.db.write(ctx, func(t *tables) error {
		if _, ok := t.users[token.UserID]; !ok {
			return repositories.ErrForeignKey
		}
		if _, ok := t.resetTokens[token.Token]; ok {
			return repositories.ErrDuplicate
		}
		t.resetTokens[token.Token] = *token
		return nil
	})
}

// Get retrieves a token, used or not
func (s *ResetTokenStore) Get(_ context.Context, token string) (*models.PasswordResetToken, error) {
	var found *models.PasswordResetToken
	s.db.read(func(t *tables) {
		if rt, ok := t.resetTokens[token]; ok {
			found = &rt
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

// MarkUsed flips an unused token to used and reports whether this call did it
func (s *ResetTokenStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	marked := false
	err := s.db.write(ctx, func(t *tables) error {
		rt, ok := t.resetTokens[token]
		if !ok || rt.Used {
			return nil
		}
		rt.Used = true
		t.resetTokens[token] = rt
		marked = true
		return nil
	})
	return marked, err
}

// DeleteExpired removes tokens past their expiry
func (s *ResetTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	now := time.Now()
	err := s.db.write(ctx, func(t *tables) error {
		for token, rt := range t.resetTokens {
			if rt.Expired(now) {
				delete(t.resetTokens, token)
				n++
			}
		}
		return nil
	})
	return n, err
}
