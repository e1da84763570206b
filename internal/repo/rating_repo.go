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

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

// Upsert inserts r or, when (user_id, store_id) exists, overwrites value and
// updated_at of the existing row. r.ID is only meaningful for inserts.
func (r *RatingRepo) Upsert(ctx context.Context, rt *domain.Rating) error {
	now := time.Now()
	rt.CreatedAt, rt.UpdatedAt = now, now
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(rt).Error
	return pkgerrors.Wrap(err, "upsert rating")
}

func (r *RatingRepo) Find(ctx context.Context, userID, storeID string) (*domain.Rating, error) {
	var rt domain.Rating
	err := r.db.WithContext(ctx).First(&rt, "user_id = ? AND store_id = ?", userID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find rating")
	}
	return &rt, nil
}

func (r *RatingRepo) ValuesForUser(ctx context.Context, userID string, storeIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}
	var rows []domain.Rating
	err := r.db.WithContext(ctx).
		Select("store_id", "value").
		Where("user_id = ? AND store_id IN ?", userID, storeIDs).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "ratings for user")
	}
	for _, rt := range rows {
		out[rt.StoreID] = rt.Value
	}
	return out, nil
}

func (r *RatingRepo) ListForStore(ctx context.Context, storeID string) ([]domain.RatingView, error) {
	out := []domain.RatingView{}
	err := r.db.WithContext(ctx).
		Table("ratings").
		Select("ratings.user_id, users.full_name AS user_name, users.email AS user_email, "+
			"ratings.value AS rating, ratings.created_at, ratings.updated_at").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list store ratings")
	}
	return out, nil
}

func (r *RatingRepo) Stats(ctx context.Context, storeID string) (int64, float64, error) {
	var row struct {
		Total int64
		Mean  float64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Rating{}).
		Select("COUNT(*) AS total, COALESCE(AVG(value), 0) AS mean").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, pkgerrors.Wrap(err, "rating stats")
	}
	return row.Total, row.Mean, nil
}

func (r *RatingRepo) StoreIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("user_id = ?", userID).
		Pluck("store_id", &ids).Error
	return ids, pkgerrors.Wrap(err, "rated stores")
}

func (r *RatingRepo) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Rating{}).Error
	return pkgerrors.Wrap(err, "delete user ratings")
}

func (r *RatingRepo) DeleteForStore(ctx context.Context, storeID string) error {
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&domain.Rating{}).Error
	return pkgerrors.Wrap(err, "delete store ratings")
}

func (r *RatingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "count ratings")
}
