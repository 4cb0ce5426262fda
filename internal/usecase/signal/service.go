// Package signal blends freshly resolved tags with the stored taste profile
// into the final query signal.
package signal

import (
	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/taste"
)

// Config holds the blending weights and caps.
type Config struct {
	ContextTagCap       int // profile tags blended in alongside fresh tags
	ProfileTagCap       int // profile tags used when nothing fresh resolved
	WeightedTagCap      int // weighted tags per query
	NewTagWeight        int
	ContextTagWeight    int
	DefaultTagWeight    int
	SensitivityDenylist []string
}

// Service composes query signals.
type Service struct {
	cfg Config
}

// New creates a signal composer.
func New(cfg Config) *Service {
	if cfg.ContextTagCap <= 0 {
		cfg.ContextTagCap = 2
	}
	if cfg.ProfileTagCap <= 0 {
		cfg.ProfileTagCap = 8
	}
	if cfg.WeightedTagCap <= 0 {
		cfg.WeightedTagCap = 15
	}
	if cfg.NewTagWeight <= 0 {
		cfg.NewTagWeight = 15
	}
	if cfg.ContextTagWeight <= 0 {
		cfg.ContextTagWeight = 8
	}
	if cfg.DefaultTagWeight <= 0 {
		cfg.DefaultTagWeight = 10
	}
	return &Service{cfg: cfg}
}

// Composition is the blended query signal. TagIDs feeds plain insights
// queries; Weighted feeds the weighted variant.
type Composition struct {
	TagIDs   []string
	Weighted []taste.WeightedTag
}

// Compose blends fresh tags with profile context. Fresh tags dominate: they
// carry the heavier weight and the profile contributes at most a couple of
// context tags. With nothing fresh, the profile alone drives the query,
// filtered through the sensitivity denylist. Fresh tags are trusted as-is;
// the denylist guards only stored profile tags.
func (s *Service) Compose(newTags []string, profile taste.Profile) Composition {
	newTags = intent.Dedupe(newTags)

	if len(newTags) == 0 {
		return s.composeFromProfile(profile)
	}

	context := profile.FilteredAffinityTags(s.cfg.SensitivityDenylist, s.cfg.ContextTagCap)

	seen := make(map[string]struct{}, len(newTags))
	var comp Composition
	for _, tag := range newTags {
		seen[tag] = struct{}{}
		comp.TagIDs = append(comp.TagIDs, tag)
		comp.Weighted = append(comp.Weighted, taste.WeightedTag{Tag: tag, Weight: s.cfg.NewTagWeight})
	}
	for _, tag := range context {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		comp.TagIDs = append(comp.TagIDs, tag)
		comp.Weighted = append(comp.Weighted, taste.WeightedTag{Tag: tag, Weight: s.cfg.ContextTagWeight})
	}

	return s.capped(comp)
}

// composeFromProfile builds the signal when nothing fresh resolved. Stored
// preferences, when present, drive the weighted variant directly: top
// weights first, regardless of the affinity cap. Without preferences every
// filtered affinity tag gets the uniform default weight.
func (s *Service) composeFromProfile(profile taste.Profile) Composition {
	comp := Composition{
		TagIDs: profile.FilteredAffinityTags(s.cfg.SensitivityDenylist, s.cfg.ProfileTagCap),
	}

	if len(profile.TagPreferences) > 0 {
		comp.Weighted = profile.TopPreferences(s.cfg.WeightedTagCap)
		return comp
	}

	for _, tag := range comp.TagIDs {
		comp.Weighted = append(comp.Weighted, taste.WeightedTag{Tag: tag, Weight: s.cfg.DefaultTagWeight})
	}
	return s.capped(comp)
}

func (s *Service) capped(comp Composition) Composition {
	if len(comp.Weighted) > s.cfg.WeightedTagCap {
		comp.Weighted = comp.Weighted[:s.cfg.WeightedTagCap]
	}
	return comp
}
