// Package authz resolves role-to-permission decisions. The static table in the
// domain package is authoritative; resolved sets are cached in Redis with their
// own TTL, independent of session lifetime.
package authz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhle/user-admin-api/internal/cache"
	"github.com/minhle/user-admin-api/internal/domain"
)

const cacheKeyPrefix = "role_permissions:"

type Resolver struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResolver(rdb *redis.Client, ttl time.Duration) *Resolver {
	return &Resolver{rdb: rdb, ttl: ttl}
}

// PermissionsFor returns the permission set granted to role. The cache is
// populated lazily on first miss per role; a table change becomes visible once
// the cached entry expires.
func (r *Resolver) PermissionsFor(ctx context.Context, role domain.Role) ([]domain.Permission, error) {
	var payload []byte
	err := cache.Do(ctx, func(ctx context.Context) error {
		var err error
		payload, err = r.rdb.Get(ctx, cacheKey(role)).Bytes()
		return err
	})
	if err == nil {
		var perms []domain.Permission
		if err := json.Unmarshal(payload, &perms); err == nil {
			return perms, nil
		}
		// Undecodable cache entry: fall through and rewrite it from the table.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	perms := domain.RolePermissions[role]
	if perms == nil {
		perms = []domain.Permission{}
	}

	encoded, err := json.Marshal(perms)
	if err != nil {
		return nil, err
	}

	err = cache.Do(ctx, func(ctx context.Context) error {
		return r.rdb.Set(ctx, cacheKey(role), encoded, r.ttl).Err()
	})
	if err != nil {
		return nil, err
	}

	return perms, nil
}

// HasAll reports whether role holds every required permission. An empty
// requirement list always authorizes.
func (r *Resolver) HasAll(ctx context.Context, role domain.Role, required []domain.Permission) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	perms, err := r.PermissionsFor(ctx, role)
	if err != nil {
		return false, err
	}

	granted := make(map[domain.Permission]bool, len(perms))
	for _, p := range perms {
		granted[p] = true
	}

	for _, p := range required {
		if !granted[p] {
			return false, nil
		}
	}
	return true, nil
}

func cacheKey(role domain.Role) string {
	return cacheKeyPrefix + string(role)
}
