// Package cache holds read-through caches in front of the ledger stores.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

const profileNameKeyPrefix = "profile:name:"

// RedisProfileCache stores account display names under profile:name:<userID>.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ portsrepo.ProfileCache = (*RedisProfileCache)(nil)

// NewRedisProfileCache returns a cache whose entries expire after ttl. A
// zero ttl keeps entries until evicted.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func profileNameKey(userID string) string {
	return profileNameKeyPrefix + userID
}

func (c *RedisProfileCache) GetName(ctx context.Context, userID string) (string, error) {
	name, err := c.client.Get(ctx, profileNameKey(userID)).Result()
	if err == redis.Nil {
		return "", portsrepo.ErrCacheMiss
	}
	if err != nil {
		return "", apperrors.Storage("read profile cache", err)
	}
	return name, nil
}

func (c *RedisProfileCache) SetName(ctx context.Context, userID, name string) error {
	if err := c.client.Set(ctx, profileNameKey(userID), name, c.ttl).Err(); err != nil {
		return apperrors.Storage("write profile cache", err)
	}
	return nil
}

// IsMiss reports whether err means the name was not cached.
func IsMiss(err error) bool {
	return errors.Is(err, portsrepo.ErrCacheMiss)
}
