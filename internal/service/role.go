package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"store-rating/internal/core/metrics"
	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/pkg/utils"
)

// RoleCache fronts role lookups; see cache.RoleCache.
type RoleCache interface {
	Load(ctx context.Context, userID string, load func(context.Context) (domain.Role, bool, error)) (domain.Role, bool, error)
	Forget(ctx context.Context, userID string)
}

type noRoleCache struct{}

func (noRoleCache) Load(ctx context.Context, _ string, load func(context.Context) (domain.Role, bool, error)) (domain.Role, bool, error) {
	return load(ctx)
}
func (noRoleCache) Forget(context.Context, string) {}

type RoleService struct {
	uow   domain.UnitOfWork
	cache RoleCache
	log   *zap.Logger
}

func NewRoleService(uow domain.UnitOfWork, cache RoleCache, log *zap.Logger) *RoleService {
	if cache == nil {
		cache = noRoleCache{}
	}
	return &RoleService{uow: uow, cache: cache, log: log}
}

// Resolve looks up the role of an authenticated identity without a policy
// check; it is how the transport layer builds the Actor.
func (s *RoleService) Resolve(ctx context.Context, userID string) (domain.Role, bool, error) {
	return s.cache.Load(ctx, userID, func(ctx context.Context) (domain.Role, bool, error) {
		a, err := s.uow.Repos().Roles().Find(ctx, userID)
		if err != nil || a == nil {
			return "", false, err
		}
		return a.Role, true, nil
	})
}

func (s *RoleService) GetRole(ctx context.Context, actor policy.Actor, userID string) (domain.Role, bool, error) {
	if err := policy.Authorize(actor, policy.ReadRole, policy.Target{UserID: userID}); err != nil {
		return "", false, err
	}
	return s.Resolve(ctx, userID)
}

// AssignRole records role for an existing user. A user holds at most one
// role; a second assignment is a Conflict.
func (s *RoleService) AssignRole(ctx context.Context, actor policy.Actor, userID string, role domain.Role) (domain.Role, error) {
	if err := policy.Authorize(actor, policy.AssignRole, policy.Target{UserID: userID}); err != nil {
		return "", err
	}
	if !role.Valid() {
		return "", domain.NewValidation("role", "must be one of: "+domain.RoleOneOf)
	}
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		u, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NewNotFound("user not found")
		}
		return insertRole(ctx, r, userID, role)
	})
	if err != nil {
		return "", err
	}
	s.cache.Forget(ctx, userID)
	s.log.Info("role assigned",
		zap.String("user_id", userID), zap.String("role", string(role)), zap.String("by", actor.ID))
	return role, nil
}

func insertRole(ctx context.Context, r domain.Repos, userID string, role domain.Role) error {
	ok, err := r.Roles().Insert(ctx, &domain.RoleAssignment{
		ID: utils.NewID(), UserID: userID, Role: role, CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewConflict("user already has a role")
	}
	return nil
}

// Bootstrap runs at first login. It creates the profile row when missing
// and assigns a role if none exists: system_administrator for the first
// role ever recorded, normal_user otherwise. Repeated calls return the
// existing role.
func (s *RoleService) Bootstrap(ctx context.Context, userID string, profile ProfileInput) (domain.Role, error) {
	if userID == "" {
		return "", domain.NewValidation("user_id", "is required")
	}
	var (
		role    domain.Role
		created bool
	)
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		u, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			nu, err := profile.user(userID)
			if err != nil {
				return err
			}
			// a concurrent bootstrap of the same identity may insert first
			if _, err := r.Users().CreateIfAbsent(ctx, nu); err != nil {
				return err
			}
		}

		existing, err := r.Roles().Find(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			role = existing.Role
			return nil
		}

		role = domain.RoleNormal
		claimed, err := r.Roles().ClaimBootstrap(ctx)
		if err != nil {
			return err
		}
		if claimed {
			n, err := r.Roles().Count(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				role = domain.RoleAdmin
			}
		}
		ok, err := r.Roles().Insert(ctx, &domain.RoleAssignment{
			ID: utils.NewID(), UserID: userID, Role: role, CreatedAt: time.Now(),
		})
		if err != nil {
			return err
		}
		if !ok {
			// a concurrent bootstrap of the same identity won
			existing, err := r.Roles().Find(ctx, userID)
			if err != nil {
				return err
			}
			if existing == nil {
				return domain.NewConflict("role bootstrap raced, retry")
			}
			role = existing.Role
			return nil
		}
		created = true
		return nil
	})
	if err != nil {
		return "", err
	}
	if created {
		s.cache.Forget(ctx, userID)
		metrics.RoleBootstraps.WithLabelValues(string(role)).Inc()
		s.log.Info("role bootstrapped", zap.String("user_id", userID), zap.String("role", string(role)))
	}
	return role, nil
}
