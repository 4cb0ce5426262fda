package chat

import (
	"context"

	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/taste"
	"github.com/zento-labs/zento/internal/usecase/classify"
	"github.com/zento-labs/zento/internal/usecase/dispatch"
	"github.com/zento-labs/zento/internal/usecase/format"
	"github.com/zento-labs/zento/internal/usecase/resolve"
	"github.com/zento-labs/zento/internal/usecase/signal"
)

// ProfileStore reads stored taste profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (taste.Profile, error)
}

// Classifier turns a message into a structured intent.
type Classifier interface {
	Classify(ctx context.Context, message string, tasteKeywords []string, history []classify.Turn) intent.Parsed
}

// Resolver turns intent signals into provider identifiers.
type Resolver interface {
	Resolve(ctx context.Context, parsed intent.Parsed) resolve.Resolution
}

// Composer blends resolved tags with the stored profile.
type Composer interface {
	Compose(newTags []string, profile taste.Profile) signal.Composition
}

// Dispatcher runs the recommendation query cascade.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) recommendation.Result
}

// Formatter renders results into a reply.
type Formatter interface {
	Format(ctx context.Context, in format.Input) string
}
