package qloo

import (
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/taste"
)

type tagSearchResponse struct {
	Results struct {
		Tags []tagDoc `json:"tags"`
	} `json:"results"`
}

type tagDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type entitySearchResponse struct {
	Results []entityDoc `json:"results"`
}

type insightsResponse struct {
	Results struct {
		Entities []entityDoc `json:"entities"`
	} `json:"results"`
}

func (r insightsResponse) entities() []recommendation.Entity {
	out := make([]recommendation.Entity, 0, len(r.Results.Entities))
	for _, d := range r.Results.Entities {
		out = append(out, d.toDomain())
	}
	return out
}

type entityDoc struct {
	EntityID   string   `json:"entity_id"`
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Properties struct {
		Title            string `json:"title"`
		Description      string `json:"description"`
		ShortDescription string `json:"short_description"`
		Geocode          struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"geocode"`
	} `json:"properties"`
}

func (d entityDoc) toDomain() recommendation.Entity {
	desc := d.Properties.Description
	if desc == "" {
		desc = d.Properties.ShortDescription
	}
	e := recommendation.Entity{
		ID:          d.EntityID,
		Name:        d.Name,
		Title:       d.Properties.Title,
		Description: desc,
	}
	if len(d.Types) > 0 {
		e.Category = d.Types[0]
	}
	if d.Properties.Geocode.City != "" || d.Properties.Geocode.Country != "" {
		e.Location = &recommendation.Location{
			City:    d.Properties.Geocode.City,
			Country: d.Properties.Geocode.Country,
		}
	}
	return e
}

// weightedInsightsRequest is the POST body for weighted queries. The provider
// accepts dotted parameter names in the JSON body as it does in the query
// string.
type weightedInsightsRequest struct {
	FilterType    string              `json:"filter.type"`
	Tags          []taste.WeightedTag `json:"signal.interests.tags"`
	LocationQuery string              `json:"filter.location.query,omitempty"`
	Take          int                 `json:"take"`
}
