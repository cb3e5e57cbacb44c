package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/upslab/labportal/internal/core/ports"
)

// keyStore is the part of the Redis client the guard needs.
type keyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SubmissionGuard refuses repeated reservation submissions while their key
// is live in Redis. Keys are produced by the reservation service.
type SubmissionGuard struct {
	client keyStore
	prefix string
}

var _ ports.SubmissionGuard = (*SubmissionGuard)(nil)

func NewSubmissionGuard(client keyStore, prefix string) *SubmissionGuard {
	return &SubmissionGuard{client: client, prefix: prefix}
}

// Claim sets key only if it is absent. It reports false when another
// submission already holds it.
func (g *SubmissionGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("submission claim: %w", err)
	}
	return ok, nil
}

func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.prefix+key).Err(); err != nil {
		return fmt.Errorf("submission release: %w", err)
	}
	return nil
}
