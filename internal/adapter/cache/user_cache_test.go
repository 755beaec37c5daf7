package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "account-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisUserCache_Set_Success(t *testing.T) {
	client, _ := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(client, 5*time.Minute, logger)

	user := &domain.User{
		ID:        1,
		Login:     "johndoe",
		Email:     "john@example.com",
		Activated: true,
	}

	err := cache.Set(context.Background(), user)
	require.NoError(t, err)

	// Verify data is in Redis
	data, err := client.Get(context.Background(), "account:johndoe").Bytes()
	require.NoError(t, err)

	var cached domain.User
	err = json.Unmarshal(data, &cached)
	require.NoError(t, err)

	assert.Equal(t, user.ID, cached.ID)
	assert.Equal(t, user.Login, cached.Login)
	assert.Equal(t, user.Email, cached.Email)
	assert.True(t, cached.Activated)
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	user, err := cache.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRedisUserCache_GetAfterSet(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	user := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}
	require.NoError(t, cache.Set(context.Background(), user))

	cached, err := cache.Get(context.Background(), "johndoe")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, user.Login, cached.Login)
	assert.Equal(t, user.Email, cached.Email)
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	user := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}
	require.NoError(t, cache.Set(context.Background(), user))
	require.NoError(t, cache.Delete(context.Background(), "johndoe"))

	cached, err := cache.Get(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)

	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	user := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}
	require.NoError(t, cache.Set(context.Background(), user))

	mr.FastForward(2 * time.Minute)

	cached, err := cache.Get(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Nil(t, cached)
}
