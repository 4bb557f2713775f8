// Package session stores the cache-resident session records that are the
// source of truth for session liveness. A token is only as alive as its record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minhle/user-admin-api/internal/cache"
	"github.com/minhle/user-admin-api/internal/domain"
)

const keyPrefix = "session:"

// Record is the cache-resident session state. It is fully replaced on every
// refresh; the refresh token is stored only as a bcrypt digest.
type Record struct {
	UserID           uuid.UUID   `json:"userId"`
	AccountID        uuid.UUID   `json:"accountId"`
	Role             domain.Role `json:"role"`
	RefreshTokenHash string      `json:"refreshTokenHash"`
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Create writes the record under session:<sid> with an absolute TTL, replacing
// any previous record for that sid. The TTL is reset on every write and only
// on writes; reads never extend it.
func (s *Store) Create(ctx context.Context, sid uuid.UUID, rec *Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return cache.Do(ctx, func(ctx context.Context) error {
		return s.rdb.Set(ctx, key(sid), payload, ttl).Err()
	})
}

// Get returns the live record for sid, or nil if no record exists. Expired and
// never-created sessions are indistinguishable to callers.
func (s *Store) Get(ctx context.Context, sid uuid.UUID) (*Record, error) {
	var payload []byte
	err := cache.Do(ctx, func(ctx context.Context) error {
		var err error
		payload, err = s.rdb.Get(ctx, key(sid)).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		// A record we cannot decode cannot authenticate anyone; treat it as absent.
		return nil, nil
	}
	return &rec, nil
}

// Delete removes the record for sid. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, sid uuid.UUID) error {
	return cache.Do(ctx, func(ctx context.Context) error {
		return s.rdb.Del(ctx, key(sid)).Err()
	})
}

func key(sid uuid.UUID) string {
	return keyPrefix + sid.String()
}
