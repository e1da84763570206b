package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
)

func profileFor(id string) ProfileInput {
	return ProfileInput{FullName: fullName(id), Email: id + "@example.com", Address: "7 Elm Avenue"}
}

func TestRoleService_Bootstrap_FirstIsAdmin(t *testing.T) {
	e := newTestEnv(t)

	role, err := e.svc.Roles.Bootstrap(e.ctx, "first", profileFor("first"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	role, err = e.svc.Roles.Bootstrap(e.ctx, "second", profileFor("second"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNormal, role)

	// repeated bootstrap returns the recorded role
	role, err = e.svc.Roles.Bootstrap(e.ctx, "first", ProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	got, ok, err := e.svc.Roles.Resolve(e.ctx, "second")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleNormal, got)
}

func TestRoleService_Bootstrap_ExistingRolesNeverYieldAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "provisioned", domain.RoleOwner)

	role, err := e.svc.Roles.Bootstrap(e.ctx, "late", profileFor("late"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNormal, role)
}

func TestRoleService_Bootstrap_InvalidProfile(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Roles.Bootstrap(e.ctx, "shorty", ProfileInput{FullName: "Too Short", Email: "s@example.com"})
	requireKind(t, err, domain.KindValidation)
	de, _ := domain.AsError(err)
	assert.Equal(t, "full_name", de.Field)

	_, err = e.svc.Roles.Bootstrap(e.ctx, "", profileFor("x"))
	requireKind(t, err, domain.KindValidation)

	n, err := e.uow.Repos().Users().Count(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// a rejected bootstrap must not burn the administrator slot
	role, err := e.svc.Roles.Bootstrap(e.ctx, "shorty", profileFor("shorty"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestRoleService_Bootstrap_ConcurrentSingleAdmin(t *testing.T) {
	e := newTestEnv(t)

	const n = 16
	roles := make([]domain.Role, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%02d", i)
			roles[i], errs[i] = e.svc.Roles.Bootstrap(e.ctx, id, profileFor(id))
		}(i)
	}
	wg.Wait()

	admins := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if roles[i] == domain.RoleAdmin {
			admins++
		} else {
			assert.Equal(t, domain.RoleNormal, roles[i])
		}
	}
	assert.Equal(t, 1, admins)

	count, err := e.uow.Repos().Roles().Count(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

// staleUsers misses every profile lookup, as a transaction does when a
// concurrent bootstrap of the same identity commits right after its read.
type staleUsers struct{ domain.UserRepository }

func (staleUsers) FindByID(context.Context, string) (*domain.User, error) { return nil, nil }

type staleUserRepos struct{ domain.Repos }

func (r staleUserRepos) Users() domain.UserRepository { return staleUsers{r.Repos.Users()} }

type staleUserUoW struct{ domain.UnitOfWork }

func (u staleUserUoW) Transaction(ctx context.Context, fn func(domain.Repos) error) error {
	return u.UnitOfWork.Transaction(ctx, func(r domain.Repos) error { return fn(staleUserRepos{r}) })
}

func TestRoleService_Bootstrap_ProfileAlreadyInserted(t *testing.T) {
	e := newTestEnv(t)
	role, err := e.svc.Roles.Bootstrap(e.ctx, "twin", profileFor("twin"))
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)

	late := NewRoleService(staleUserUoW{e.uow}, nil, zap.NewNop())
	role, err = late.Bootstrap(e.ctx, "twin", profileFor("twin"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	n, err := e.uow.Repos().Users().Count(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRoleService_AssignRole(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedUser(t, "admin", domain.RoleAdmin)
	normal := e.seedUser(t, "normal", domain.RoleNormal)
	e.seedUser(t, "fresh", "")

	role, err := e.svc.Roles.AssignRole(e.ctx, admin, "fresh", domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, role)

	_, err = e.svc.Roles.AssignRole(e.ctx, admin, "fresh", domain.RoleNormal)
	requireKind(t, err, domain.KindConflict)

	_, err = e.svc.Roles.AssignRole(e.ctx, admin, "ghost", domain.RoleNormal)
	requireKind(t, err, domain.KindNotFound)

	_, err = e.svc.Roles.AssignRole(e.ctx, admin, "fresh", domain.Role("superuser"))
	requireKind(t, err, domain.KindValidation)

	_, err = e.svc.Roles.AssignRole(e.ctx, normal, "fresh", domain.RoleAdmin)
	requireKind(t, err, domain.KindForbidden)
}

func TestRoleService_GetRole(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedUser(t, "admin", domain.RoleAdmin)
	normal := e.seedUser(t, "normal", domain.RoleNormal)
	e.seedUser(t, "norole", "")

	role, ok, err := e.svc.Roles.GetRole(e.ctx, normal, normal.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleNormal, role)

	_, ok, err = e.svc.Roles.GetRole(e.ctx, admin, "norole")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = e.svc.Roles.GetRole(e.ctx, normal, admin.ID)
	requireKind(t, err, domain.KindForbidden)

	_, _, err = e.svc.Roles.GetRole(e.ctx, policy.Actor{}, admin.ID)
	requireKind(t, err, domain.KindForbidden)
}
