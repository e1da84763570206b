package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/pkg/utils"
)

type NewStoreInput struct {
	Name    string `json:"name" validate:"required,min=20,max=60"`
	Email   string `json:"email" validate:"required,email,max=191"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID string `json:"owner_id" validate:"required"`
}

// StorePatch is the body of a profile update. The read-only fields are
// decoded only so their presence can be rejected.
type StorePatch struct {
	Name    *string `json:"name" validate:"omitnil,min=20,max=60"`
	Email   *string `json:"email" validate:"omitnil,email,max=191"`
	Address *string `json:"address" validate:"omitnil,min=1,max=400"`

	OwnerID       json.RawMessage `json:"owner_id,omitempty" validate:"-"`
	AverageRating json.RawMessage `json:"average_rating,omitempty" validate:"-"`
	TotalRatings  json.RawMessage `json:"total_ratings,omitempty" validate:"-"`
}

// StoreListing is a store row as shown in the catalog. MyRating is the
// caller's own rating, when it has one.
type StoreListing struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
	MyRating      *int    `json:"my_rating"`
}

type StoreService struct {
	uow domain.UnitOfWork
	log *zap.Logger
}

func NewStoreService(uow domain.UnitOfWork, log *zap.Logger) *StoreService {
	return &StoreService{uow: uow, log: log}
}

// Create registers a store for an owner that exists, holds store_owner and
// has no store yet. Aggregates start at zero.
func (s *StoreService) Create(ctx context.Context, actor policy.Actor, in NewStoreInput) (*domain.Store, error) {
	if err := policy.Authorize(actor, policy.CreateStore, policy.Target{OwnerID: in.OwnerID}); err != nil {
		return nil, err
	}
	trim(&in.Name)
	trim(&in.Email)
	trim(&in.Address)
	trim(&in.OwnerID)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	st := &domain.Store{
		ID:      utils.NewID(),
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		OwnerID: in.OwnerID,
	}
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		owner, err := r.Users().FindByID(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.NewNotFound("owner not found")
		}
		role, err := r.Roles().Find(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		if role == nil || role.Role != domain.RoleOwner {
			return domain.NewValidation("owner_id", "user must hold the store_owner role")
		}
		existing, err := r.Stores().FindByOwner(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflict("owner already has a store")
		}
		return r.Stores().Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("store created",
		zap.String("store_id", st.ID), zap.String("owner_id", st.OwnerID), zap.String("by", actor.ID))
	return st, nil
}

// ForOwner returns the owner's store, or nil when none is assigned.
func (s *StoreService) ForOwner(ctx context.Context, actor policy.Actor, ownerID string) (*domain.Store, error) {
	if err := policy.Authorize(actor, policy.ReadOwnStore, policy.Target{OwnerID: ownerID}); err != nil {
		return nil, err
	}
	return s.uow.Repos().Stores().FindByOwner(ctx, ownerID)
}

func (s *StoreService) Get(ctx context.Context, actor policy.Actor, storeID string) (*domain.Store, error) {
	if err := policy.Authorize(actor, policy.ListStores, policy.Target{}); err != nil {
		return nil, err
	}
	st, err := s.uow.Repos().Stores().FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.NewNotFound("store not found")
	}
	return st, nil
}

func (s *StoreService) List(ctx context.Context, actor policy.Actor, f domain.StoreFilter) ([]StoreListing, error) {
	if err := policy.Authorize(actor, policy.ListStores, policy.Target{}); err != nil {
		return nil, err
	}
	r := s.uow.Repos()
	stores, err := r.Stores().List(ctx, f)
	if err != nil {
		return nil, err
	}
	var mine map[string]int
	if actor.Role == domain.RoleNormal && len(stores) > 0 {
		ids := make([]string, len(stores))
		for i := range stores {
			ids[i] = stores[i].ID
		}
		if mine, err = r.Ratings().ValuesForUser(ctx, actor.ID, ids); err != nil {
			return nil, err
		}
	}
	out := make([]StoreListing, 0, len(stores))
	for _, st := range stores {
		row := StoreListing{
			ID:            st.ID,
			Name:          st.Name,
			Email:         st.Email,
			Address:       st.Address,
			AverageRating: st.AverageRating,
			TotalRatings:  st.TotalRatings,
		}
		if v, ok := mine[st.ID]; ok {
			row.MyRating = &v
		}
		out = append(out, row)
	}
	return out, nil
}

// UpdateProfile edits name, email or address. Aggregates and ownership are
// never writable through it.
func (s *StoreService) UpdateProfile(ctx context.Context, actor policy.Actor, storeID string, p StorePatch) (*domain.Store, error) {
	r := s.uow.Repos()
	st, err := r.Stores().FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		if actor.IsAdmin() {
			return nil, domain.NewNotFound("store not found")
		}
		return nil, policy.Authorize(actor, policy.UpdateStore, policy.Target{})
	}
	if err := policy.Authorize(actor, policy.UpdateStore, policy.Target{OwnerID: st.OwnerID}); err != nil {
		return nil, err
	}
	switch {
	case p.AverageRating != nil:
		return nil, domain.NewValidation("average_rating", "is derived from ratings and cannot be written")
	case p.TotalRatings != nil:
		return nil, domain.NewValidation("total_ratings", "is derived from ratings and cannot be written")
	case p.OwnerID != nil:
		return nil, domain.NewValidation("owner_id", "cannot be changed")
	}
	trim(p.Name)
	trim(p.Email)
	trim(p.Address)
	if err := validateInput(p); err != nil {
		return nil, err
	}
	prof := domain.StoreProfile{Name: p.Name, Email: p.Email, Address: p.Address}
	if prof.Empty() {
		return nil, domain.NewValidation("", "nothing to update")
	}
	if err := r.Stores().UpdateProfile(ctx, storeID, prof); err != nil {
		return nil, err
	}
	s.log.Info("store profile updated", zap.String("store_id", storeID), zap.String("by", actor.ID))
	return r.Stores().FindByID(ctx, storeID)
}

// Delete removes a store and its ratings.
func (s *StoreService) Delete(ctx context.Context, actor policy.Actor, storeID string) error {
	if err := policy.Authorize(actor, policy.DeleteStore, policy.Target{}); err != nil {
		return err
	}
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		if err := r.Ratings().DeleteForStore(ctx, storeID); err != nil {
			return err
		}
		ok, err := r.Stores().Delete(ctx, storeID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("store not found")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("store deleted", zap.String("store_id", storeID), zap.String("by", actor.ID))
	return nil
}
