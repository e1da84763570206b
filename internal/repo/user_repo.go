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

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.NewConflict("user already exists")
		}
		return pkgerrors.Wrap(err, "create user")
	}
	return nil
}

func (r *UserRepo) CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		if isDupKey(res.Error) {
			return false, domain.NewConflict("user already exists")
		}
		return false, pkgerrors.Wrap(res.Error, "create user")
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find user")
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.UserWithRole, error) {
	q := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.full_name, users.email, users.address, users.created_at, roles.role AS role").
		Joins("LEFT JOIN roles ON roles.user_id = users.id")
	if s := strings.TrimSpace(f.NameContains); s != "" {
		q = q.Where("LOWER(users.full_name)"+likeClause, likePattern(s))
	}
	if s := strings.TrimSpace(f.EmailContains); s != "" {
		q = q.Where("LOWER(users.email)"+likeClause, likePattern(s))
	}
	if s := strings.TrimSpace(f.AddressContains); s != "" {
		q = q.Where("LOWER(users.address)"+likeClause, likePattern(s))
	}
	if f.Role != "" {
		q = q.Where("roles.role = ?", f.Role)
	}
	out := []domain.UserWithRole{}
	if err := q.Order("users.full_name ASC").Scan(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "delete user")
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "count users")
}
