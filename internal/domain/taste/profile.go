// Package taste defines the stored taste profile and the weighted tag
// signals derived from it.
package taste

import (
	"sort"
	"strings"
)

// TagPreference is a stored per-tag affinity weight, in [1,20].
type TagPreference struct {
	Tag    string
	Weight int
}

// WeightedTag pairs a tag identifier with a query weight. Used only by the
// weighted-insights query variant.
type WeightedTag struct {
	Tag    string `json:"tag"`
	Weight int    `json:"weight"`
}

// Profile is a user's stored taste profile. The pipeline treats it as a
// read-only snapshot; affinity tags keep discovery order and are unique.
type Profile struct {
	AffinityTags   []string
	TagPreferences []TagPreference
	HomeCity       string
}

// FilteredAffinityTags returns up to max affinity tags whose identifiers
// contain none of the denylist substrings, preserving order. max <= 0 means
// no cap.
func (p Profile) FilteredAffinityTags(denylist []string, max int) []string {
	out := make([]string, 0, len(p.AffinityTags))
	for _, tag := range p.AffinityTags {
		if containsAny(strings.ToLower(tag), denylist) {
			continue
		}
		out = append(out, tag)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// TopPreferences returns the n highest-weighted stored preferences as
// weighted tags, sorted by weight descending. The sort is stable so equal
// weights keep stored order.
func (p Profile) TopPreferences(n int) []WeightedTag {
	prefs := make([]TagPreference, len(p.TagPreferences))
	copy(prefs, p.TagPreferences)
	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Weight > prefs[j].Weight
	})
	if n > 0 && len(prefs) > n {
		prefs = prefs[:n]
	}
	out := make([]WeightedTag, len(prefs))
	for i, pref := range prefs {
		out[i] = WeightedTag{Tag: pref.Tag, Weight: pref.Weight}
	}
	return out
}

// AffinityKeywords converts the profile's tag URNs to friendly keywords for
// prompt embedding.
func (p Profile) AffinityKeywords() []string {
	return KeywordsFromURNs(p.AffinityTags)
}

// KeywordsFromURNs converts tag URNs like
// "urn:tag:genre:media:science_fiction" to title-cased keywords
// ("Science Fiction"). Values that do not look like tag URNs pass through.
func KeywordsFromURNs(urns []string) []string {
	out := make([]string, 0, len(urns))
	for _, urn := range urns {
		if urn == "" {
			continue
		}
		parts := strings.Split(urn, ":")
		if len(parts) < 4 {
			out = append(out, urn)
			continue
		}
		words := strings.Split(parts[len(parts)-1], "_")
		for i, w := range words {
			if w == "" {
				continue
			}
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
