package profile

import (
	"encoding/json"

	"github.com/zento-labs/zento/internal/domain/taste"
)

// profileDoc is the stored JSON shape written by the onboarding service.
type profileDoc struct {
	AffinityTags   []string           `json:"affinity_tags"`
	TagPreferences []tagPreferenceDoc `json:"tag_preferences"`
	HomeCity       string             `json:"home_city"`
}

type tagPreferenceDoc struct {
	Tag    string `json:"tag"`
	Weight int    `json:"weight"`
}

func parseProfile(raw []byte) (taste.Profile, error) {
	var doc profileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return taste.Profile{}, err
	}

	prefs := make([]taste.TagPreference, 0, len(doc.TagPreferences))
	for _, p := range doc.TagPreferences {
		if p.Tag == "" {
			continue
		}
		prefs = append(prefs, taste.TagPreference{Tag: p.Tag, Weight: p.Weight})
	}

	return taste.Profile{
		AffinityTags:   doc.AffinityTags,
		TagPreferences: prefs,
		HomeCity:       doc.HomeCity,
	}, nil
}
