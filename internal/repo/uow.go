package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-rating/internal/domain"
)

// BootstrapMark is the sentinel row claimed by the very first role bootstrap.
type BootstrapMark struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false"`
	ClaimedAt time.Time `gorm:"not null"`
}

func (BootstrapMark) TableName() string { return "bootstrap_marks" }

// Models lists every table this package persists, in migration order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.RoleAssignment{},
		&domain.Store{},
		&domain.Rating{},
		&BootstrapMark{},
	}
}

type repos struct{ db *gorm.DB }

func (r repos) Users() domain.UserRepository     { return NewUserRepo(r.db) }
func (r repos) Roles() domain.RoleRepository     { return NewRoleRepo(r.db) }
func (r repos) Stores() domain.StoreRepository   { return NewStoreRepo(r.db) }
func (r repos) Ratings() domain.RatingRepository { return NewRatingRepo(r.db) }

type UnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) *UnitOfWork { return &UnitOfWork{db: db} }

func (u *UnitOfWork) Repos() domain.Repos { return repos{db: u.db} }

func (u *UnitOfWork) Transaction(ctx context.Context, fn func(r domain.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos{db: tx})
	})
}
