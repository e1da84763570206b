package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"store-rating/internal/core/metrics"
	"store-rating/internal/domain"
	"store-rating/internal/policy"
)

// ProfileInput is the profile collected at sign-up.
type ProfileInput struct {
	FullName string `json:"full_name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Address  string `json:"address" validate:"max=400"`
}

func (p ProfileInput) user(id string) (*domain.User, error) {
	trim(&p.FullName)
	trim(&p.Email)
	trim(&p.Address)
	if err := validateInput(p); err != nil {
		return nil, err
	}
	return &domain.User{ID: id, FullName: p.FullName, Email: p.Email, Address: p.Address}, nil
}

// NewUserInput provisions a provider identity with an explicit role.
type NewUserInput struct {
	ID       string      `json:"id" validate:"required,max=64"`
	FullName string      `json:"full_name" validate:"required,min=20,max=60"`
	Email    string      `json:"email" validate:"required,email,max=191"`
	Address  string      `json:"address" validate:"max=400"`
	Role     domain.Role `json:"role" validate:"required,oneof=system_administrator normal_user store_owner"`
}

// Profile is a user together with the role it holds.
type Profile struct {
	domain.User
	Role domain.Role `json:"role"`
}

type Dashboard struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

type UserService struct {
	uow   domain.UnitOfWork
	roles *RoleService
	agg   Aggregator
	log   *zap.Logger
}

func NewUserService(uow domain.UnitOfWork, roles *RoleService, log *zap.Logger) *UserService {
	return &UserService{uow: uow, roles: roles, log: log}
}

func (s *UserService) Create(ctx context.Context, actor policy.Actor, in NewUserInput) (*Profile, error) {
	if err := policy.Authorize(actor, policy.CreateUser, policy.Target{UserID: in.ID}); err != nil {
		return nil, err
	}
	trim(&in.ID)
	trim(&in.FullName)
	trim(&in.Email)
	trim(&in.Address)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u := &domain.User{ID: in.ID, FullName: in.FullName, Email: in.Email, Address: in.Address}
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		existing, err := r.Users().FindByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflict("user already exists")
		}
		if err := r.Users().Create(ctx, u); err != nil {
			return err
		}
		return insertRole(ctx, r, u.ID, in.Role)
	})
	if err != nil {
		return nil, err
	}
	s.roles.cache.Forget(ctx, u.ID)
	s.log.Info("user created",
		zap.String("user_id", u.ID), zap.String("role", string(in.Role)), zap.String("by", actor.ID))
	return &Profile{User: *u, Role: in.Role}, nil
}

func (s *UserService) Me(ctx context.Context, actor policy.Actor) (*Profile, error) {
	return s.Get(ctx, actor, actor.ID)
}

func (s *UserService) Get(ctx context.Context, actor policy.Actor, userID string) (*Profile, error) {
	if err := policy.Authorize(actor, policy.ReadUser, policy.Target{UserID: userID}); err != nil {
		return nil, err
	}
	u, err := s.uow.Repos().Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewNotFound("user not found")
	}
	role, _, err := s.roles.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *u, Role: role}, nil
}

func (s *UserService) List(ctx context.Context, actor policy.Actor, f domain.UserFilter) ([]domain.UserWithRole, error) {
	if err := policy.Authorize(actor, policy.ListUsers, policy.Target{}); err != nil {
		return nil, err
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, domain.NewValidation("role", "must be one of: "+domain.RoleOneOf)
	}
	return s.uow.Repos().Users().List(ctx, f)
}

// Remove deletes a user with its role and ratings, recomputing the
// aggregate of every store the user had rated in the same transaction.
func (s *UserService) Remove(ctx context.Context, actor policy.Actor, userID string) error {
	if err := policy.Authorize(actor, policy.DeleteUser, policy.Target{UserID: userID}); err != nil {
		return err
	}
	if userID == actor.ID {
		return domain.NewConflict("cannot remove yourself")
	}
	var rated []string
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		u, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NewNotFound("user not found")
		}
		owned, err := r.Stores().FindByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if owned != nil {
			return domain.NewConflict("user owns a store; delete the store first")
		}
		rated, err = r.Ratings().StoreIDsForUser(ctx, userID)
		if err != nil {
			return err
		}
		// fixed lock order across concurrent removals
		sort.Strings(rated)
		for _, id := range rated {
			if _, err := r.Stores().LockByID(ctx, id); err != nil {
				return err
			}
		}
		if err := r.Ratings().DeleteForUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Roles().DeleteForUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Users().Delete(ctx, userID); err != nil {
			return err
		}
		for _, id := range rated {
			if _, err := s.agg.Recompute(ctx, r, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.AggregateRecomputes.Add(float64(len(rated)))
	s.roles.cache.Forget(ctx, userID)
	s.log.Info("user removed", zap.String("user_id", userID), zap.String("by", actor.ID))
	return nil
}

func (s *UserService) Dashboard(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	if err := policy.Authorize(actor, policy.ReadDashboard, policy.Target{}); err != nil {
		return nil, err
	}
	r := s.uow.Repos()
	var (
		d   Dashboard
		err error
	)
	if d.TotalUsers, err = r.Users().Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalStores, err = r.Stores().Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalRatings, err = r.Ratings().Count(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}
