package service

import (
	"go.uber.org/zap"

	"store-rating/internal/domain"
)

type Services struct {
	Roles   *RoleService
	Users   *UserService
	Stores  *StoreService
	Ratings *RatingService
}

// New wires every service over one unit of work. cache may be nil.
func New(uow domain.UnitOfWork, cache RoleCache, log *zap.Logger) *Services {
	roles := NewRoleService(uow, cache, log.Named("roles"))
	return &Services{
		Roles:   roles,
		Users:   NewUserService(uow, roles, log.Named("users")),
		Stores:  NewStoreService(uow, log.Named("stores")),
		Ratings: NewRatingService(uow, log.Named("ratings")),
	}
}
