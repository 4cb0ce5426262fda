// Package profile reads stored taste profiles from the key-value store.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/zento-labs/zento/internal/db"
	"github.com/zento-labs/zento/internal/domain"
	"github.com/zento-labs/zento/internal/domain/taste"
	"github.com/zento-labs/zento/internal/metrics"
)

// store is the consumer interface for profile storage (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo implements usecase/chat.ProfileStore.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a profile repository. keyPrefix namespaces all keys,
// e.g. "zento:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns the stored taste profile for a user. Returns
// domain.ErrProfileNotFound when the user has no profile yet.
func (r *Repo) Get(ctx context.Context, userID string) (taste.Profile, error) {
	raw, err := r.store.Get(ctx, r.key(userID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
			return taste.Profile{}, domain.ErrProfileNotFound
		}
		metrics.ProfileCacheTotal.WithLabelValues("error").Inc()
		return taste.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}

	p, err := parseProfile(raw)
	if err != nil {
		metrics.ProfileCacheTotal.WithLabelValues("error").Inc()
		return taste.Profile{}, fmt.Errorf("parse profile %s: %w", userID, err)
	}

	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return p, nil
}

func (r *Repo) key(userID string) string {
	return r.keyPrefix + "profile:" + userID
}
