package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-rating/internal/core/database"
	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/internal/repo"
)

type testEnv struct {
	db  *gorm.DB
	uow *repo.UnitOfWork
	svc *Services
	ctx context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repo.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	uow := repo.NewUnitOfWork(db)
	return &testEnv{db: db, uow: uow, svc: New(uow, nil, zap.NewNop()), ctx: context.Background()}
}

func fullName(id string) string { return "Full Name Of Test User " + id }

// seedUser inserts a profile and, when role is non-empty, its role.
func (e *testEnv) seedUser(t *testing.T, id string, role domain.Role) policy.Actor {
	t.Helper()
	r := e.uow.Repos()
	require.NoError(t, r.Users().Create(e.ctx, &domain.User{
		ID: id, FullName: fullName(id), Email: id + "@example.com", Address: "1 Main Street",
	}))
	if role != "" {
		require.NoError(t, insertRole(e.ctx, r, id, role))
	}
	return policy.Actor{ID: id, Role: role}
}

func (e *testEnv) seedStore(t *testing.T, admin policy.Actor, ownerID, name string) *domain.Store {
	t.Helper()
	st, err := e.svc.Stores.Create(e.ctx, admin, NewStoreInput{
		Name: name, Email: "shop@example.com", Address: "42 Market Road", OwnerID: ownerID,
	})
	require.NoError(t, err)
	return st
}

func (e *testEnv) store(t *testing.T, id string) *domain.Store {
	t.Helper()
	st, err := e.uow.Repos().Stores().FindByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st
}

func (e *testEnv) ratingRows(t *testing.T, userID, storeID string) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(&domain.Rating{}).Where("store_id = ?", storeID)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.Truef(t, ok, "expected domain error, got %v", err)
	require.Equal(t, kind, de.Kind, de.Error())
}
