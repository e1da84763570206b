package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"store-rating/internal/core/metrics"
	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/pkg/utils"
)

type RatingInput struct {
	StoreID string `json:"store_id" validate:"required"`
	Value   int    `json:"value" validate:"min=1,max=5"`
}

// RatingResult is the stored rating together with the store aggregate it
// produced.
type RatingResult struct {
	Rating    domain.Rating    `json:"rating"`
	Aggregate domain.Aggregate `json:"aggregate"`
	Created   bool             `json:"created"`
}

type RatingService struct {
	uow domain.UnitOfWork
	agg Aggregator
	log *zap.Logger
}

func NewRatingService(uow domain.UnitOfWork, log *zap.Logger) *RatingService {
	return &RatingService{uow: uow, log: log}
}

// Submit upserts the caller's rating for a store and recomputes the
// store's aggregate in the same transaction. The store row is locked first,
// so submissions to one store serialize.
func (s *RatingService) Submit(ctx context.Context, actor policy.Actor, in RatingInput) (*RatingResult, error) {
	if err := policy.Authorize(actor, policy.SubmitRating, policy.Target{UserID: actor.ID}); err != nil {
		return nil, err
	}
	in.StoreID = strings.TrimSpace(in.StoreID)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var res RatingResult
	err := s.uow.Transaction(ctx, func(r domain.Repos) error {
		st, err := r.Stores().LockByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if st == nil {
			return domain.NewNotFound("store not found")
		}
		prev, err := r.Ratings().Find(ctx, actor.ID, in.StoreID)
		if err != nil {
			return err
		}
		if err := r.Ratings().Upsert(ctx, &domain.Rating{
			ID:      utils.NewID(),
			UserID:  actor.ID,
			StoreID: in.StoreID,
			Value:   in.Value,
		}); err != nil {
			return err
		}
		if res.Aggregate, err = s.agg.Recompute(ctx, r, in.StoreID); err != nil {
			return err
		}
		saved, err := r.Ratings().Find(ctx, actor.ID, in.StoreID)
		if err != nil {
			return err
		}
		if saved == nil {
			return domain.NewNotFound("rating vanished during upsert")
		}
		res.Rating = *saved
		res.Created = prev == nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := "updated"
	if res.Created {
		result = "created"
	}
	metrics.RatingsSubmitted.WithLabelValues(result).Inc()
	metrics.AggregateRecomputes.Inc()
	s.log.Info("rating "+result,
		zap.String("store_id", in.StoreID),
		zap.String("user_id", actor.ID),
		zap.Int("value", in.Value),
		zap.Float64("average_rating", res.Aggregate.AverageRating),
		zap.Int64("total_ratings", res.Aggregate.TotalRatings),
	)
	return &res, nil
}

// Mine returns the caller's rating value for a store, or nil.
func (s *RatingService) Mine(ctx context.Context, actor policy.Actor, storeID string) (*int, error) {
	return s.UserRating(ctx, actor, actor.ID, storeID)
}

func (s *RatingService) UserRating(ctx context.Context, actor policy.Actor, userID, storeID string) (*int, error) {
	if err := policy.Authorize(actor, policy.ReadRating, policy.Target{UserID: userID}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(storeID) == "" {
		return nil, domain.NewValidation("store_id", "is required")
	}
	rt, err := s.uow.Repos().Ratings().Find(ctx, userID, storeID)
	if err != nil || rt == nil {
		return nil, err
	}
	v := rt.Value
	return &v, nil
}

// ListForStore returns a store's ratings, newest first, to its owner or an
// administrator.
func (s *RatingService) ListForStore(ctx context.Context, actor policy.Actor, storeID string) ([]domain.RatingView, error) {
	r := s.uow.Repos()
	st, err := r.Stores().FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		if actor.IsAdmin() {
			return nil, domain.NewNotFound("store not found")
		}
		return nil, policy.Authorize(actor, policy.ListStoreRatings, policy.Target{})
	}
	if err := policy.Authorize(actor, policy.ListStoreRatings, policy.Target{OwnerID: st.OwnerID}); err != nil {
		return nil, err
	}
	return r.Ratings().ListForStore(ctx, storeID)
}
