package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cosmetics-storefront/models"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each session cart as one JSON value that
// expires after ttl of inactivity.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func generateCartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:lines", sessionID)
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	raw, err := r.client.Get(ctx, generateCartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("invalid cart %s: %w", sessionID, err)
	}
	return lines, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, lines []models.CartLine) error {
	if len(lines) == 0 {
		return r.Delete(ctx, sessionID)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, generateCartKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, generateCartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", sessionID, err)
	}
	return nil
}
