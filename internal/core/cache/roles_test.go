package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-rating/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRoleCache_LoadsOnceThenHits(t *testing.T) {
	c, mr := newTestCache(t)
	rc := NewRoleCache(c, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (domain.Role, bool, error) {
		calls++
		return domain.RoleOwner, true, nil
	}

	role, ok, err := rc.Load(ctx, "u1", load)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleOwner, role)

	role, ok, err = rc.Load(ctx, "u1", load)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleOwner, role)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists(roleKey("u1")))
	assert.Equal(t, time.Minute, mr.TTL(roleKey("u1")))
}

func TestRoleCache_MissIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	rc := NewRoleCache(c, time.Minute)
	ctx := context.Background()

	_, ok, err := rc.Load(ctx, "u2", func(context.Context) (domain.Role, bool, error) { return "", false, nil })
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(roleKey("u2")))

	role, ok, err := rc.Load(ctx, "u2", func(context.Context) (domain.Role, bool, error) { return domain.RoleNormal, true, nil })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleNormal, role)
}

func TestRoleCache_LoadErrorPropagates(t *testing.T) {
	c, _ := newTestCache(t)
	rc := NewRoleCache(c, time.Minute)
	boom := errors.New("db down")

	_, _, err := rc.Load(context.Background(), "u3", func(context.Context) (domain.Role, bool, error) { return "", false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestRoleCache_Forget(t *testing.T) {
	c, mr := newTestCache(t)
	rc := NewRoleCache(c, time.Minute)
	ctx := context.Background()

	_, _, err := rc.Load(ctx, "u4", func(context.Context) (domain.Role, bool, error) { return domain.RoleAdmin, true, nil })
	require.NoError(t, err)
	require.True(t, mr.Exists(roleKey("u4")))

	rc.Forget(ctx, "u4")
	assert.False(t, mr.Exists(roleKey("u4")))
}

func TestGetOrLoad_RedisDownFallsBackToLoad(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte(`"v"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(b))
}

func TestGetOrLoadJSON_CorruptEntryIsReloaded(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("k", "{not json"))

	v, ok, err := GetOrLoadJSON(c, ctx, "k", time.Minute, func(context.Context) (int, bool, error) {
		return 7, true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}
