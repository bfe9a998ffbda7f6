package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
)

const defaultKeyPrefix = "garage:idempotency:"

// RedisIdempotencyRepository keeps replayable responses in Redis so every
// API instance sees the same keys. Entries expire through the Redis TTL.
type RedisIdempotencyRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisIdempotencyRepository creates a repository on an existing client
func NewRedisIdempotencyRepository(client *redis.Client, keyPrefix string) *RedisIdempotencyRepository {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisIdempotencyRepository) key(userID, key string) string {
	return r.keyPrefix + userID + ":" + key
}

func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string, userID string) (*entity.IdempotencyKey, error) {
	raw, err := r.client.Get(ctx, r.key(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(raw, &ikey); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency key: %w", err)
	}
	return &ikey, nil
}

// Create stores the key only if the caller has not stored it already
func (r *RedisIdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	ttl := time.Until(ikey.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}

	raw, err := json.Marshal(ikey)
	if err != nil {
		return err
	}
	if err := r.client.SetNX(ctx, r.key(ikey.UserID, ikey.Key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis drops keys when their TTL runs out
func (r *RedisIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	return nil
}

var _ domainRepo.IdempotencyRepository = (*RedisIdempotencyRepository)(nil)
