package redis

import (
	"context"
	"errors"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// Area implements storage.Area on top of Cache.
// Keys never expire; the area has no eviction and no size bound.
type Area struct {
	cache  *Cache
	prefix string
}

var _ storage.Area = (*Area)(nil)

// NewArea creates an Area for the named logical area.
func NewArea(cache *Cache, name storage.AreaName) *Area {
	return &Area{
		cache:  cache,
		prefix: AreaPrefix(name),
	}
}

// AreaPrefix returns the key prefix used for an area.
func AreaPrefix(name storage.AreaName) string {
	switch name {
	case storage.AreaSession:
		return PrefixSession
	case storage.AreaLocal:
		return PrefixLocal
	default:
		return string(name) + ":"
	}
}

// Get returns the value stored under key.
func (a *Area) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, shared.ErrStorageKeyEmpty
	}

	v, err := a.cache.GetString(ctx, a.prefix+key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return "", false, nil
		}
		return "", false, shared.WrapError("storage", "Get", shared.ErrStorage, "redis get failed", err)
	}
	return v, true, nil
}

// Set stores value under key.
func (a *Area) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	if err := a.cache.SetString(ctx, a.prefix+key, value, 0); err != nil {
		return shared.WrapError("storage", "Set", shared.ErrStorage, "redis set failed", err)
	}
	return nil
}

// Delete removes key.
func (a *Area) Delete(ctx context.Context, key string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	if err := a.cache.Delete(ctx, a.prefix+key); err != nil {
		return shared.WrapError("storage", "Delete", shared.ErrStorage, "redis delete failed", err)
	}
	return nil
}
