// Package cache owns the shared Redis client used by the session store and the
// authorization resolver. The client is constructed once at startup and passed
// down; nothing in this codebase reaches for a global connection.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhle/user-admin-api/internal/domain"
)

const connectTimeout = 5 * time.Second

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Do runs op and retries it once on a transient failure. The second failure is
// surfaced as domain.ErrStoreUnavailable. redis.Nil passes through untouched so
// callers can detect cache misses.
func Do(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	err = op(ctx)
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
