package resolve

import (
	"context"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/tags"
)

// Searcher looks up tags and entities at the insights provider.
type Searcher interface {
	SearchTags(ctx context.Context, query string) ([]tags.Tag, error)
	SearchEntities(ctx context.Context, query string, cat category.Category) ([]recommendation.Entity, error)
}
