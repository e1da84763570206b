package service

import (
	"context"
	"math"

	"store-rating/internal/domain"
)

// Aggregator recomputes a store's average and count from the rating ledger.
// Recompute must run on the Repos of the transaction that changed the
// ledger, so the aggregate commits or rolls back together with it. Callers
// count recomputes in metrics only after commit.
type Aggregator struct{}

func (Aggregator) Recompute(ctx context.Context, r domain.Repos, storeID string) (domain.Aggregate, error) {
	count, mean, err := r.Ratings().Stats(ctx, storeID)
	if err != nil {
		return domain.Aggregate{}, err
	}
	agg := domain.Aggregate{TotalRatings: count}
	if count > 0 {
		agg.AverageRating = RoundAverage(mean)
	}
	if err := r.Stores().SetAggregate(ctx, storeID, agg); err != nil {
		return domain.Aggregate{}, err
	}
	return agg, nil
}

// RoundAverage rounds to one decimal, halves away from zero.
func RoundAverage(mean float64) float64 {
	return math.Round(mean*10) / 10
}
