package repo

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-rating/internal/domain"
)

const bootstrapMarkID = 1

type RoleRepo struct{ db *gorm.DB }

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) Find(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	var a domain.RoleAssignment
	err := r.db.WithContext(ctx).First(&a, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find role")
	}
	return &a, nil
}

func (r *RoleRepo) Insert(ctx context.Context, a *domain.RoleAssignment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(a)
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "insert role")
	}
	return res.RowsAffected == 1, nil
}

func (r *RoleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RoleAssignment{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "count roles")
}

func (r *RoleRepo) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RoleAssignment{}).Error
	return pkgerrors.Wrap(err, "delete role")
}

func (r *RoleRepo) ClaimBootstrap(ctx context.Context) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&BootstrapMark{ID: bootstrapMarkID, ClaimedAt: time.Now()})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "claim bootstrap")
	}
	return res.RowsAffected == 1, nil
}
