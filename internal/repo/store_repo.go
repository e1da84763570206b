package repo

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-rating/internal/domain"
)

type StoreRepo struct{ db *gorm.DB }

func NewStoreRepo(db *gorm.DB) *StoreRepo { return &StoreRepo{db: db} }

func (r *StoreRepo) Create(ctx context.Context, s *domain.Store) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isDupKey(err) {
			return domain.NewConflict("owner already has a store")
		}
		return pkgerrors.Wrap(err, "create store")
	}
	return nil
}

func (r *StoreRepo) first(q *gorm.DB, what string) (*domain.Store, error) {
	var s domain.Store
	err := q.First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, what)
	}
	return &s, nil
}

func (r *StoreRepo) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), "find store")
}

// LockByID takes SELECT ... FOR UPDATE on engines that support row locks;
// sqlite serializes writers on its own.
func (r *StoreRepo) LockByID(ctx context.Context, id string) (*domain.Store, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	return r.first(q, "lock store")
}

func (r *StoreRepo) FindByOwner(ctx context.Context, ownerID string) (*domain.Store, error) {
	return r.first(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), "find store by owner")
}

func (r *StoreRepo) List(ctx context.Context, f domain.StoreFilter) ([]domain.Store, error) {
	q := r.db.WithContext(ctx).Model(&domain.Store{})
	if s := strings.TrimSpace(f.NameContains); s != "" {
		q = q.Where("LOWER(name)"+likeClause, likePattern(s))
	}
	if s := strings.TrimSpace(f.AddressContains); s != "" {
		q = q.Where("LOWER(address)"+likeClause, likePattern(s))
	}
	out := []domain.Store{}
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list stores")
	}
	return out, nil
}

func (r *StoreRepo) UpdateProfile(ctx context.Context, id string, p domain.StoreProfile) error {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if len(cols) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Store{}).Where("id = ?", id).Updates(cols).Error
	return pkgerrors.Wrap(err, "update store profile")
}

func (r *StoreRepo) SetAggregate(ctx context.Context, id string, a domain.Aggregate) error {
	err := r.db.WithContext(ctx).Model(&domain.Store{}).Where("id = ?", id).
		Updates(map[string]any{"average_rating": a.AverageRating, "total_ratings": a.TotalRatings}).Error
	return pkgerrors.Wrap(err, "set store aggregate")
}

func (r *StoreRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Store{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "delete store")
	}
	return res.RowsAffected > 0, nil
}

func (r *StoreRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Store{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "count stores")
}
