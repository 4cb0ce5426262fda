// Package intent defines the structured intent record produced by the
// classifier and consumed by the rest of the pipeline.
package intent

import (
	"encoding/json"
	"fmt"

	"github.com/zento-labs/zento/internal/domain"
	"github.com/zento-labs/zento/internal/domain/category"
)

// Type is the user's high-level goal for one message.
type Type string

// Supported intent types.
const (
	Recommendation Type = "recommendation"
	Itinerary      Type = "itinerary"
	Refine         Type = "refine"
	Explore        Type = "explore"
	Analysis       Type = "analysis"
	Trending       Type = "trending"
)

// IsValid reports whether t is a known intent type.
func (t Type) IsValid() bool {
	switch t {
	case Recommendation, Itinerary, Refine, Explore, Analysis, Trending:
		return true
	}
	return false
}

// IsCoreRecommendation reports whether t belongs to the recommendation
// family that participates in the empty-result fallback cascade.
func (t Type) IsCoreRecommendation() bool {
	switch t {
	case Recommendation, Itinerary, Refine, Explore:
		return true
	}
	return false
}

// Signals carries the relevance signals extracted from one message.
type Signals struct {
	TagsToFind       []string `json:"tags_to_find"`
	LocationQuery    string   `json:"location_query"`
	SpecificEntities []string `json:"specific_entities"`
}

// Parsed is a validated intent record. Created per request, immutable once
// produced.
type Parsed struct {
	Intent         Type              `json:"intent"`
	TargetCategory category.Category `json:"target_category"`
	Signals        Signals           `json:"signals"`
}

// New validates and normalizes an intent record. TagsToFind and
// SpecificEntities are deduplicated preserving order; an unsupported
// category falls back to place.
func New(t Type, target string, signals Signals) (Parsed, error) {
	if !t.IsValid() {
		return Parsed{}, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidIntent, t)
	}
	signals.TagsToFind = Dedupe(signals.TagsToFind)
	signals.SpecificEntities = Dedupe(signals.SpecificEntities)
	return Parsed{
		Intent:         t,
		TargetCategory: category.Validate(target),
		Signals:        signals,
	}, nil
}

// completionPayload mirrors the JSON shape requested from the completion
// collaborator. location_query may arrive as JSON null.
type completionPayload struct {
	Intent         string `json:"intent"`
	TargetCategory string `json:"target_category"`
	Signals        struct {
		TagsToFind       []string `json:"tags_to_find"`
		LocationQuery    *string  `json:"location_query"`
		SpecificEntities []string `json:"specific_entities"`
	} `json:"signals"`
}

// ParseCompletion decodes and validates completion output into a Parsed
// intent. Any structural problem yields ErrInvalidIntent.
func ParseCompletion(raw string) (Parsed, error) {
	var p completionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", domain.ErrInvalidIntent, err)
	}
	if p.Intent == "" {
		return Parsed{}, fmt.Errorf("%w: missing intent", domain.ErrInvalidIntent)
	}
	signals := Signals{
		TagsToFind:       p.Signals.TagsToFind,
		SpecificEntities: p.Signals.SpecificEntities,
	}
	if p.Signals.LocationQuery != nil {
		signals.LocationQuery = *p.Signals.LocationQuery
	}
	return New(Type(p.Intent), p.TargetCategory, signals)
}

// Dedupe removes duplicates from a string slice preserving first-seen order.
func Dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
