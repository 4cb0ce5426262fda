// Package dispatch routes a composed query signal to the right provider
// operation, with a fallback cascade for empty results.
package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/taste"
	"github.com/zento-labs/zento/internal/metrics"
)

// Config bounds the fallback strategies.
type Config struct {
	ProfileCoreCap int // profile tags for the last-resort strategy
}

// Service dispatches recommendation queries.
type Service struct {
	provider Provider
	cfg      Config
	logger   *zap.Logger
}

// New creates a dispatcher.
func New(provider Provider, cfg Config, logger *zap.Logger) *Service {
	if cfg.ProfileCoreCap <= 0 {
		cfg.ProfileCoreCap = 5
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Request is one fully resolved dispatch input. TagIDs is the composed
// signal (fresh plus profile context); NewTagIDs is only what this message
// freshly resolved.
type Request struct {
	Parsed     intent.Parsed
	TagIDs     []string
	NewTagIDs  []string
	Weighted   []taste.WeightedTag
	EntityIDs  []string
	Profile    taste.Profile
	Location   string
	FreeIntent string
}

// genericPlaceTags is the near-universal place signal used when everything
// specific came back empty.
var genericPlaceTags = []string{
	"urn:tag:category:place:entertainment",
	"urn:tag:category:place:venue",
	"urn:tag:category:place:restaurant",
}

// profileCoreDenylist filters the last-resort profile tags. Narrower than
// the composer's sensitivity list: only the categories that would look
// absurd as venue recommendations.
var profileCoreDenylist = []string{"medical", "school"}

// musicMarkers steer the artist remap strategy.
var musicMarkers = []string{"music", "concert", "live"}

// movieMarkers steer the trending remap toward movies.
var movieMarkers = []string{"movie", "film", "cinema"}

// Dispatch runs the query for the classified intent. Trending and analysis
// intents map to their dedicated operations; the recommendation family runs
// the weighted query first and then walks a fallback cascade while results
// stay empty. A hard provider error stops the cascade and surfaces as a
// soft-error result, so the caller can still answer the user.
func (s *Service) Dispatch(ctx context.Context, req Request) recommendation.Result {
	switch {
	case req.Parsed.Intent == intent.Trending:
		return s.dispatchTrending(ctx, req)
	case req.Parsed.Intent == intent.Analysis:
		return s.dispatchAnalysis(ctx, req)
	default:
		return s.dispatchRecommendation(ctx, req)
	}
}

// trendingCategory picks the category trending can serve. The provider has
// no trending signal for places, so the message decides which culture
// category stands in: movie-flavored asks get movies, everything else gets
// artists.
func trendingCategory(req Request) category.Category {
	if req.Parsed.TargetCategory != category.Place {
		return req.Parsed.TargetCategory
	}
	if containsAny(strings.ToLower(req.FreeIntent), movieMarkers) {
		return category.Movie
	}
	return category.Artist
}

func (s *Service) dispatchTrending(ctx context.Context, req Request) recommendation.Result {
	cat := trendingCategory(req)

	entities, err := s.provider.Trending(ctx, cat, req.Location)
	if err != nil {
		s.logger.Warn("trending query failed, trying plain insights",
			zap.String("category", cat.ShortName()),
			zap.Error(err))
		metrics.DispatchStrategiesTotal.WithLabelValues("trending", "error").Inc()
		return s.singleInsights(ctx, req, cat, "trending_rescue")
	}
	if len(entities) > 0 {
		metrics.DispatchStrategiesTotal.WithLabelValues("trending", "hit").Inc()
		return recommendation.Result{Entities: entities}
	}
	metrics.DispatchStrategiesTotal.WithLabelValues("trending", "miss").Inc()
	return recommendation.Result{}
}

func (s *Service) dispatchAnalysis(ctx context.Context, req Request) recommendation.Result {
	entities, err := s.provider.Analysis(ctx, req.EntityIDs, req.TagIDs, req.Parsed.TargetCategory)
	if err != nil {
		metrics.DispatchStrategiesTotal.WithLabelValues("analysis", "error").Inc()
		return recommendation.Failed(err.Error())
	}
	outcome := "hit"
	if len(entities) == 0 {
		outcome = "miss"
	}
	metrics.DispatchStrategiesTotal.WithLabelValues("analysis", outcome).Inc()
	return recommendation.Result{Insights: entities}
}

// strategy is one step of the fallback cascade. applicable gates it; run
// executes it.
type strategy struct {
	name       string
	applicable func(req Request) bool
	run        func(ctx context.Context, req Request) ([]recommendation.Entity, error)
}

func (s *Service) strategies() []strategy {
	return []strategy{
		{
			name:       "new_tags",
			applicable: func(req Request) bool { return len(req.NewTagIDs) > 0 },
			run: func(ctx context.Context, req Request) ([]recommendation.Entity, error) {
				return s.provider.Insights(ctx, recommendation.Query{
					TagIDs:     req.NewTagIDs,
					Category:   req.Parsed.TargetCategory,
					Location:   req.Location,
					FreeIntent: req.FreeIntent,
				})
			},
		},
		{
			name: "artist_remap",
			applicable: func(req Request) bool {
				if req.Parsed.TargetCategory == category.Artist || len(req.NewTagIDs) == 0 {
					return false
				}
				return containsAny(strings.ToLower(req.FreeIntent), musicMarkers)
			},
			run: func(ctx context.Context, req Request) ([]recommendation.Entity, error) {
				return s.provider.Insights(ctx, recommendation.Query{
					TagIDs:     req.NewTagIDs,
					Category:   category.Artist,
					Location:   req.Location,
					FreeIntent: req.FreeIntent,
				})
			},
		},
		{
			name: "generic_place",
			applicable: func(req Request) bool {
				return req.Location != ""
			},
			run: func(ctx context.Context, req Request) ([]recommendation.Entity, error) {
				return s.provider.Insights(ctx, recommendation.Query{
					TagIDs:   genericPlaceTags,
					Category: req.Parsed.TargetCategory,
					Location: req.Location,
				})
			},
		},
		{
			name: "profile_core",
			applicable: func(req Request) bool {
				return len(req.Profile.AffinityTags) > 0
			},
			run: func(ctx context.Context, req Request) ([]recommendation.Entity, error) {
				core := req.Profile.FilteredAffinityTags(profileCoreDenylist, s.cfg.ProfileCoreCap)
				if len(core) == 0 {
					return nil, nil
				}
				return s.provider.Insights(ctx, recommendation.Query{
					TagIDs:   core,
					Category: req.Parsed.TargetCategory,
					Location: req.Location,
				})
			},
		},
	}
}

func (s *Service) dispatchRecommendation(ctx context.Context, req Request) recommendation.Result {
	// Weighted query first. Its failures degrade to the plain cascade
	// instead of aborting: the weighted variant is the most fragile
	// provider surface.
	if len(req.Weighted) > 0 {
		entities, err := s.provider.WeightedInsights(ctx, recommendation.WeightedQuery{
			Tags:     req.Weighted,
			Category: req.Parsed.TargetCategory,
			Location: req.Location,
		})
		switch {
		case err != nil:
			metrics.DispatchStrategiesTotal.WithLabelValues("weighted", "error").Inc()
			s.logger.Warn("weighted query failed, degrading to plain cascade", zap.Error(err))
		case len(entities) > 0:
			metrics.DispatchStrategiesTotal.WithLabelValues("weighted", "hit").Inc()
			return recommendation.Result{Entities: entities}
		default:
			metrics.DispatchStrategiesTotal.WithLabelValues("weighted", "miss").Inc()
		}
	}

	// Primary plain query over the full composed signal.
	if len(req.TagIDs) > 0 {
		entities, err := s.provider.Insights(ctx, recommendation.Query{
			TagIDs:     req.TagIDs,
			Category:   req.Parsed.TargetCategory,
			Location:   req.Location,
			FreeIntent: req.FreeIntent,
		})
		if err != nil {
			metrics.DispatchStrategiesTotal.WithLabelValues("composed", "error").Inc()
			s.logger.Warn("composed query failed", zap.Error(err))
			return recommendation.Failed(err.Error())
		}
		if len(entities) > 0 {
			metrics.DispatchStrategiesTotal.WithLabelValues("composed", "hit").Inc()
			return recommendation.Result{Entities: entities}
		}
		metrics.DispatchStrategiesTotal.WithLabelValues("composed", "miss").Inc()
	}

	for _, st := range s.strategies() {
		if !st.applicable(req) {
			continue
		}
		entities, err := st.run(ctx, req)
		if err != nil {
			metrics.DispatchStrategiesTotal.WithLabelValues(st.name, "error").Inc()
			s.logger.Warn("dispatch strategy failed",
				zap.String("strategy", st.name),
				zap.Error(err))
			return recommendation.Failed(err.Error())
		}
		if len(entities) > 0 {
			metrics.DispatchStrategiesTotal.WithLabelValues(st.name, "hit").Inc()
			return recommendation.Result{Entities: entities}
		}
		metrics.DispatchStrategiesTotal.WithLabelValues(st.name, "miss").Inc()
		s.logger.Debug("dispatch strategy empty, cascading", zap.String("strategy", st.name))
	}
	return recommendation.Result{}
}

// singleInsights is the trending rescue path: one plain query against the
// already remapped category, no cascade.
func (s *Service) singleInsights(ctx context.Context, req Request, cat category.Category, label string) recommendation.Result {
	entities, err := s.provider.Insights(ctx, recommendation.Query{
		TagIDs:     req.TagIDs,
		Category:   cat,
		Location:   req.Location,
		FreeIntent: req.FreeIntent,
	})
	if err != nil {
		metrics.DispatchStrategiesTotal.WithLabelValues(label, "error").Inc()
		return recommendation.Failed(err.Error())
	}
	outcome := "hit"
	if len(entities) == 0 {
		outcome = "miss"
	}
	metrics.DispatchStrategiesTotal.WithLabelValues(label, outcome).Inc()
	return recommendation.Result{Entities: entities}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
