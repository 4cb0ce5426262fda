// Package resolve turns intent signals (free-text keywords and entity
// names) into provider tag and entity identifiers.
package resolve

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/tags"
)

// Config bounds the lookup fan-out.
type Config struct {
	KeywordCap  int // keyword lookups per request
	EntityCap   int // entity lookups per request
	Concurrency int // lookups in flight at once
}

// Service resolves intent signals against the provider's search endpoints.
type Service struct {
	search Searcher
	cfg    Config
	logger *zap.Logger
}

// New creates a resolver service.
func New(search Searcher, cfg Config, logger *zap.Logger) *Service {
	if cfg.KeywordCap <= 0 {
		cfg.KeywordCap = 5
	}
	if cfg.EntityCap <= 0 {
		cfg.EntityCap = 3
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Service{search: search, cfg: cfg, logger: logger}
}

// Resolution holds the identifiers resolved from one intent.
type Resolution struct {
	TagIDs    []string
	EntityIDs []string
}

// Resolve looks up every keyword and entity name in parallel, bounded by the
// configured concurrency. Individual lookup failures are logged and skipped:
// a partial resolution beats a failed request.
func (s *Service) Resolve(ctx context.Context, parsed intent.Parsed) Resolution {
	keywords := truncate(parsed.Signals.TagsToFind, s.cfg.KeywordCap)
	names := truncate(parsed.Signals.SpecificEntities, s.cfg.EntityCap)

	tagResults := make([][]tags.Tag, len(keywords))
	entityResults := make([][]recommendation.Entity, len(names))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			found, err := s.search.SearchTags(ctx, kw)
			if err != nil {
				s.logger.Warn("tag lookup skipped",
					zap.String("keyword", kw),
					zap.Error(err))
				return nil
			}
			tagResults[i] = found
			return nil
		})
	}

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			found, err := s.search.SearchEntities(ctx, name, parsed.TargetCategory)
			if err != nil {
				s.logger.Warn("entity lookup skipped",
					zap.String("name", name),
					zap.Error(err))
				return nil
			}
			entityResults[i] = found
			return nil
		})
	}

	_ = g.Wait()

	var res Resolution
	seenTags := make(map[string]struct{})
	for _, found := range tagResults {
		for _, t := range found {
			if _, ok := seenTags[t.ID]; ok {
				continue
			}
			seenTags[t.ID] = struct{}{}
			res.TagIDs = append(res.TagIDs, t.ID)
		}
	}

	seenEntities := make(map[string]struct{})
	for _, found := range entityResults {
		for _, e := range found {
			if e.ID == "" {
				continue
			}
			if _, ok := seenEntities[e.ID]; ok {
				continue
			}
			seenEntities[e.ID] = struct{}{}
			res.EntityIDs = append(res.EntityIDs, e.ID)
		}
	}

	return res
}

func truncate(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
