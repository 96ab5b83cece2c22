package cursor

import (
	"context"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "soundfy:sync:cursor:"

// defaultTTL bounds how long an abandoned sync run keeps its resume
// point. A run that stays interrupted longer simply starts fresh.
const defaultTTL = 7 * 24 * time.Hour

// RedisCursorStore implements CursorStore on Redis strings. Cursors
// survive process restarts, which is the whole point: a retried sync job
// resumes from the last committed page.
type RedisCursorStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCursorStore creates a cursor store with the default TTL.
func NewRedisCursorStore(client *redis.Client) ports.CursorStore {
	return &RedisCursorStore{client: client, ttl: defaultTTL}
}

func (s *RedisCursorStore) Get(ctx context.Context, stepKey string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+stepKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read sync cursor: %w", err)
	}
	return val, nil
}

func (s *RedisCursorStore) Set(ctx context.Context, stepKey, cursor string) error {
	if err := s.client.Set(ctx, keyPrefix+stepKey, cursor, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist sync cursor: %w", err)
	}
	return nil
}

func (s *RedisCursorStore) Clear(ctx context.Context, stepKey string) error {
	if err := s.client.Del(ctx, keyPrefix+stepKey).Err(); err != nil {
		return fmt.Errorf("failed to clear sync cursor: %w", err)
	}
	return nil
}
