package repositories

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by ProfileCache.GetName when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

// ProfileCache caches account display names, which never change once set.
type ProfileCache interface {
	GetName(ctx context.Context, userID string) (string, error)
	SetName(ctx context.Context, userID, name string) error
}
