package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyRepository_KeyIsScopedPerUser(t *testing.T) {
	repo := NewRedisIdempotencyRepository(nil, "")

	assert.Equal(t, "garage:idempotency:user-1:abc", repo.key("user-1", "abc"))
	assert.NotEqual(t, repo.key("user-1", "abc"), repo.key("user-2", "abc"))
}

// Runs only when a Redis server is available, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestRedisIdempotencyRepository_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	repo := NewRedisIdempotencyRepository(client, "test:"+uuid.NewString()+":")
	ikey := &entity.IdempotencyKey{
		Key:          "req-1",
		UserID:       "user-1",
		Endpoint:     "POST /api/v1/sales",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(time.Minute),
	}
	require.NoError(t, repo.Create(ctx, ikey))

	got, err := repo.GetByKey(ctx, "req-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)
	assert.Equal(t, `{"success":true}`, got.ResponseBody)

	missing, err := repo.GetByKey(ctx, "req-1", "user-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
