package cache

import (
	"context"
	"time"

	"store-rating/internal/domain"
)

// RoleCache caches user id -> role lookups. Roles are immutable once
// assigned; removal calls Forget. Users without a role are not cached, so a
// fresh bootstrap is visible immediately.
type RoleCache struct {
	c   *Cache
	ttl time.Duration
}

func NewRoleCache(c *Cache, ttl time.Duration) *RoleCache {
	return &RoleCache{c: c, ttl: ttl}
}

func roleKey(userID string) string { return "store-rating:role:" + userID }

func (r *RoleCache) Load(ctx context.Context, userID string, load func(context.Context) (domain.Role, bool, error)) (domain.Role, bool, error) {
	return GetOrLoadJSON(r.c, ctx, roleKey(userID), r.ttl, load)
}

func (r *RoleCache) Forget(ctx context.Context, userID string) {
	_ = r.c.Del(ctx, roleKey(userID))
}
