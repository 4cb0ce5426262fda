package dispatch

import (
	"context"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/recommendation"
)

// Provider runs recommendation queries at the insights provider.
type Provider interface {
	Insights(ctx context.Context, q recommendation.Query) ([]recommendation.Entity, error)
	WeightedInsights(ctx context.Context, q recommendation.WeightedQuery) ([]recommendation.Entity, error)
	Trending(ctx context.Context, cat category.Category, location string) ([]recommendation.Entity, error)
	Analysis(ctx context.Context, entityIDs, tagIDs []string, cat category.Category) ([]recommendation.Entity, error)
}
