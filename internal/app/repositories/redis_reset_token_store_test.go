package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduadmin/internal/app/models"
)

func newRedisStore(t *testing.T) (*RedisResetTokenStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), server.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisResetTokenStore(client), server
}

func TestRedisResetTokenStore(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	token := &models.PasswordResetToken{Token: "abc", UserID: 42, ExpiresAt: expiresAt}
	require.NoError(t, store.Save(ctx, token))
	assert.ErrorIs(t, store.Save(ctx, token), ErrDuplicate)
	assert.True(t, server.Exists(resetTokenKeyPrefix+"abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.True(t, expiresAt.Equal(got.ExpiresAt))
	assert.False(t, got.Used)

	consumed, err := store.MarkUsed(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = store.MarkUsed(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, consumed)

	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisResetTokenStoreExpiry(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.PasswordResetToken{Token: "short", UserID: 1, ExpiresAt: time.Now().Add(time.Minute)}))
	server.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)

	purged, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	err = store.Save(ctx, &models.PasswordResetToken{Token: "stale", UserID: 1, ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, server := newRedisStore(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
