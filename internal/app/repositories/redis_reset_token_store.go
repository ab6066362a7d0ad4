package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/eduadmin/internal/app/models"
)

const resetTokenKeyPrefix = "eduadmin:reset_token:"

type redisResetToken struct {
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RedisResetTokenStore keeps password reset tokens in Redis with a TTL equal to their lifetime.
// Consuming a token deletes the key, so a used token reads as missing.
type RedisResetTokenStore struct {
	client *redis.Client
}

// NewRedisResetTokenStore creates a store over an existing client
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Save stores a token; a colliding token yields ErrDuplicate
func (s *RedisResetTokenStore) Save(ctx context.Context, token *models.PasswordResetToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("reset token already expired")
	}

	payload, err := json.Marshal(redisResetToken{UserID: token.UserID, ExpiresAt: token.ExpiresAt})
	if err != nil {
		return fmt.Errorf("failed to encode reset token: %w", err)
	}

	ok, err := s.client.SetNX(ctx, resetTokenKeyPrefix+token.Token, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

// Get reads a live token
func (s *RedisResetTokenStore) Get(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	raw, err := s.client.Get(ctx, resetTokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading reset token: %w", err)
	}

	var stored redisResetToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode reset token: %w", err)
	}
	return &models.PasswordResetToken{Token: token, UserID: stored.UserID, ExpiresAt: stored.ExpiresAt}, nil
}

// MarkUsed consumes the token with GETDEL; only the caller that removed it gets true
func (s *RedisResetTokenStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	err := s.client.GetDel(ctx, resetTokenKeyPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error consuming reset token: %w", err)
	}
	return true, nil
}

// DeleteExpired is a no-op: Redis expires the keys itself
func (s *RedisResetTokenStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
