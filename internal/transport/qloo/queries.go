package qloo

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/tags"
)

// coffeeTerms broadens coffee-flavored queries; the provider indexes these
// as distinct tag families.
var coffeeTerms = []string{"coffee", "cafe", "coffeehouse", "espresso", "coffee shop"}

// SearchTags finds tag URNs matching a free-text keyword. Coffee-flavored
// queries fan out to related terms. Irrelevant tags are dropped and the
// merged result is capped.
func (c *Client) SearchTags(ctx context.Context, query string) ([]tags.Tag, error) {
	terms := []string{query}
	lower := strings.ToLower(query)
	if strings.Contains(lower, "coffee") || strings.Contains(lower, "cafe") {
		terms = coffeeTerms
	}

	seen := make(map[string]struct{})
	var out []tags.Tag
	var firstErr error
	for _, term := range terms {
		params := url.Values{}
		params.Set("filter.query", term)
		params.Set("feature.typo_tolerance", "true")

		var resp tagSearchResponse
		if err := c.getJSON(ctx, "tags", "/v2/tags", params, &resp); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			c.logger.Warn("tag search term failed", zap.String("term", term), zap.Error(err))
			continue
		}

		for _, d := range resp.Results.Tags {
			if d.ID == "" || tags.IsIrrelevant(d.ID) {
				continue
			}
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			out = append(out, tags.Tag{ID: d.ID, Name: d.Name, Type: d.Type})
			if len(out) == tagResultCap {
				return out, nil
			}
		}
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// SearchEntities resolves a free-text name to concrete entities of the
// target category.
func (c *Client) SearchEntities(ctx context.Context, query string, cat category.Category) ([]recommendation.Entity, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("types", string(cat))
	params.Set("take", strconv.Itoa(entityResultCap))

	var resp entitySearchResponse
	if err := c.getJSON(ctx, "search", "/search", params, &resp); err != nil {
		return nil, err
	}

	out := make([]recommendation.Entity, 0, len(resp.Results))
	for _, d := range resp.Results {
		out = append(out, d.toDomain())
		if len(out) == entityResultCap {
			break
		}
	}
	return out, nil
}

// Insights runs a tag-signal recommendation query. Tags are ranked for the
// target category and capped before being spent upstream.
func (c *Client) Insights(ctx context.Context, q recommendation.Query) ([]recommendation.Entity, error) {
	ranked := tags.Prioritize(q.TagIDs, q.Category, q.FreeIntent)
	if len(ranked) > c.queryTagCap {
		ranked = ranked[:c.queryTagCap]
	}

	params := url.Values{}
	params.Set("filter.type", string(q.Category))
	if len(ranked) > 0 {
		params.Set("signal.interests.tags", strings.Join(ranked, ","))
	}
	if usableLocation(q.Location) {
		params.Set("filter.location.query", q.Location)
	}
	params.Set("take", strconv.Itoa(take(q.Take)))

	var resp insightsResponse
	if err := c.getJSON(ctx, "insights", "/v2/insights", params, &resp); err != nil {
		return nil, err
	}
	return resp.entities(), nil
}

// WeightedInsights runs a weighted tag-signal query via POST.
func (c *Client) WeightedInsights(ctx context.Context, q recommendation.WeightedQuery) ([]recommendation.Entity, error) {
	body := weightedInsightsRequest{
		FilterType: string(q.Category),
		Tags:       q.Tags,
		Take:       take(q.Take),
	}
	if usableLocation(q.Location) {
		body.LocationQuery = q.Location
	}

	var resp insightsResponse
	if err := c.postJSON(ctx, "insights_weighted", "/v2/insights", body, &resp); err != nil {
		return nil, err
	}
	return resp.entities(), nil
}

// Trending returns currently trending entities for a category.
func (c *Client) Trending(ctx context.Context, cat category.Category, location string) ([]recommendation.Entity, error) {
	params := url.Values{}
	params.Set("filter.type", string(cat))
	params.Set("bias.trends", "high")
	if usableLocation(location) {
		params.Set("filter.location.query", location)
	}
	params.Set("take", strconv.Itoa(defaultTake))

	var resp insightsResponse
	if err := c.getJSON(ctx, "trending", "/v2/insights", params, &resp); err != nil {
		return nil, err
	}
	return resp.entities(), nil
}

// Analysis explains taste overlap. Entity signals take precedence over tag
// signals when both are present.
func (c *Client) Analysis(ctx context.Context, entityIDs, tagIDs []string, cat category.Category) ([]recommendation.Entity, error) {
	params := url.Values{}
	params.Set("filter.type", string(cat))
	if len(entityIDs) > 0 {
		params.Set("signal.interests.entities", strings.Join(entityIDs, ","))
	} else if len(tagIDs) > 0 {
		params.Set("signal.interests.tags", strings.Join(tagIDs, ","))
	}
	params.Set("take", strconv.Itoa(defaultTake))

	var resp insightsResponse
	if err := c.getJSON(ctx, "analysis", "/v2/insights", params, &resp); err != nil {
		return nil, err
	}
	return resp.entities(), nil
}

func take(n int) int {
	if n <= 0 {
		return defaultTake
	}
	return n
}
