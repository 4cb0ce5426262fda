// Package insights caches insights provider responses in the key-value
// store.
package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/db"
	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/metrics"
)

// provider is the consumer interface for the upstream insights client.
type provider interface {
	Insights(ctx context.Context, q recommendation.Query) ([]recommendation.Entity, error)
	WeightedInsights(ctx context.Context, q recommendation.WeightedQuery) ([]recommendation.Entity, error)
	Trending(ctx context.Context, cat category.Category, location string) ([]recommendation.Entity, error)
	Analysis(ctx context.Context, entityIDs, tagIDs []string, cat category.Category) ([]recommendation.Entity, error)
}

// store is the consumer interface for cache storage (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps the insights provider with short-TTL response caching for
// plain insights and trending queries. Weighted and analysis queries
// carry per-user signal compositions and pass through uncached.
type Cache struct {
	provider  provider
	store     store
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// New creates the caching wrapper. keyPrefix namespaces all keys,
// e.g. "zento:".
func New(p provider, s store, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		provider:  p,
		store:     s,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

// Insights serves plain tag-signal queries from the cache when possible.
// Only non-empty results are cached, so a provider hiccup never pins an
// empty answer for the TTL.
func (c *Cache) Insights(ctx context.Context, q recommendation.Query) ([]recommendation.Entity, error) {
	key := c.key("insights",
		strings.Join(q.TagIDs, ","),
		string(q.Category),
		q.Location,
		q.FreeIntent,
		strconv.Itoa(q.Take),
	)
	if entities, ok := c.lookup(ctx, key); ok {
		return entities, nil
	}

	entities, err := c.provider.Insights(ctx, q)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, entities)
	return entities, nil
}

// Trending serves trending queries from the cache when possible.
func (c *Cache) Trending(ctx context.Context, cat category.Category, location string) ([]recommendation.Entity, error) {
	key := c.key("trending", string(cat), location)
	if entities, ok := c.lookup(ctx, key); ok {
		return entities, nil
	}

	entities, err := c.provider.Trending(ctx, cat, location)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, entities)
	return entities, nil
}

// WeightedInsights passes through uncached.
func (c *Cache) WeightedInsights(ctx context.Context, q recommendation.WeightedQuery) ([]recommendation.Entity, error) {
	return c.provider.WeightedInsights(ctx, q)
}

// Analysis passes through uncached.
func (c *Cache) Analysis(ctx context.Context, entityIDs, tagIDs []string, cat category.Category) ([]recommendation.Entity, error) {
	return c.provider.Analysis(ctx, entityIDs, tagIDs, cat)
}

// lookup reads a cached result. Read failures and corrupt entries count
// in metrics and fall through to the provider.
func (c *Cache) lookup(ctx context.Context, key string) ([]recommendation.Entity, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			metrics.InsightsCacheTotal.WithLabelValues("miss").Inc()
		} else {
			metrics.InsightsCacheTotal.WithLabelValues("error").Inc()
			c.logger.Warn("insights cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var entities []recommendation.Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		metrics.InsightsCacheTotal.WithLabelValues("error").Inc()
		c.logger.Warn("insights cache entry corrupt", zap.Error(err))
		return nil, false
	}

	metrics.InsightsCacheTotal.WithLabelValues("hit").Inc()
	return entities, true
}

// put stores a non-empty result. Write failures are logged, never
// surfaced: the caller already has its answer.
func (c *Cache) put(ctx context.Context, key string, entities []recommendation.Entity) {
	if len(entities) == 0 {
		return
	}
	raw, err := json.Marshal(entities)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("insights cache write failed", zap.Error(err))
	}
}

func (c *Cache) key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return c.keyPrefix + "insights:" + hex.EncodeToString(sum[:])
}
