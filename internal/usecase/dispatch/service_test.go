package dispatch

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/domain/taste"
)

// fakeProvider scripts per-operation outcomes and records the call order.
type fakeProvider struct {
	calls []string

	weightedEntities []recommendation.Entity
	weightedErr      error

	insightsByTag map[string][]recommendation.Entity
	insightsErr   error

	trendingEntities map[category.Category][]recommendation.Entity
	trendingErr      error

	analysisEntities []recommendation.Entity
	analysisErr      error

	lastQuery recommendation.Query
}

func (f *fakeProvider) Insights(_ context.Context, q recommendation.Query) ([]recommendation.Entity, error) {
	f.calls = append(f.calls, "insights")
	f.lastQuery = q
	if f.insightsErr != nil {
		return nil, f.insightsErr
	}
	if len(q.TagIDs) == 0 {
		return nil, nil
	}
	return f.insightsByTag[q.TagIDs[0]], nil
}

func (f *fakeProvider) WeightedInsights(_ context.Context, _ recommendation.WeightedQuery) ([]recommendation.Entity, error) {
	f.calls = append(f.calls, "weighted")
	return f.weightedEntities, f.weightedErr
}

func (f *fakeProvider) Trending(_ context.Context, cat category.Category, _ string) ([]recommendation.Entity, error) {
	f.calls = append(f.calls, "trending:"+cat.ShortName())
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trendingEntities[cat], nil
}

func (f *fakeProvider) Analysis(_ context.Context, _, _ []string, _ category.Category) ([]recommendation.Entity, error) {
	f.calls = append(f.calls, "analysis")
	return f.analysisEntities, f.analysisErr
}

func entity(id string) recommendation.Entity {
	return recommendation.Entity{ID: id, Name: id}
}

func placeRequest(weighted []taste.WeightedTag, tagIDs []string) Request {
	p, _ := intent.New(intent.Recommendation, string(category.Place), intent.Signals{})
	return Request{
		Parsed:   p,
		TagIDs:   tagIDs,
		Weighted: weighted,
		Location: "Berlin",
	}
}

func TestDispatch_WeightedHitStopsCascade(t *testing.T) {
	fp := &fakeProvider{weightedEntities: []recommendation.Entity{entity("e1")}}
	svc := New(fp, Config{}, zap.NewNop())

	got := svc.Dispatch(context.Background(), placeRequest(
		[]taste.WeightedTag{{Tag: "t1", Weight: 15}}, []string{"t1"}))

	if got.IsEmpty() || got.Entities[0].ID != "e1" {
		t.Fatalf("result = %+v", got)
	}
	if len(fp.calls) != 1 || fp.calls[0] != "weighted" {
		t.Errorf("calls = %v, want weighted only", fp.calls)
	}
}

func TestDispatch_WeightedErrorDegradesToPlain(t *testing.T) {
	fp := &fakeProvider{
		weightedErr:   errors.New("400 from provider"),
		insightsByTag: map[string][]recommendation.Entity{"t1": {entity("e1")}},
	}
	svc := New(fp, Config{}, zap.NewNop())

	got := svc.Dispatch(context.Background(), placeRequest(
		[]taste.WeightedTag{{Tag: "t1", Weight: 15}}, []string{"t1"}))

	if got.HasError() {
		t.Fatalf("weighted failure must degrade, not fail: %+v", got)
	}
	if got.IsEmpty() {
		t.Fatal("expected entities from the plain query")
	}
	if len(fp.calls) != 2 || fp.calls[1] != "insights" {
		t.Errorf("calls = %v", fp.calls)
	}
}

func TestDispatch_CascadeToGenericPlace(t *testing.T) {
	fp := &fakeProvider{
		insightsByTag: map[string][]recommendation.Entity{
			genericPlaceTags[0]: {entity("generic")},
		},
	}
	svc := New(fp, Config{}, zap.NewNop())

	got := svc.Dispatch(context.Background(), placeRequest(nil, []string{"t1"}))

	if got.IsEmpty() || got.Entities[0].ID != "generic" {
		t.Fatalf("result = %+v", got)
	}
	// composed miss, then generic_place hit
	if len(fp.calls) != 2 {
		t.Errorf("calls = %v", fp.calls)
	}
}

func TestDispatch_ComposedMissFallsBackToNewTags(t *testing.T) {
	fp := &fakeProvider{
		insightsByTag: map[string][]recommendation.Entity{
			"fresh": {entity("fresh-pick")},
		},
	}
	svc := New(fp, Config{}, zap.NewNop())

	req := placeRequest(nil, []string{"ctx-blend", "fresh"})
	req.NewTagIDs = []string{"fresh"}
	got := svc.Dispatch(context.Background(), req)

	if got.IsEmpty() || got.Entities[0].ID != "fresh-pick" {
		t.Fatalf("result = %+v", got)
	}
	if len(fp.calls) != 2 {
		t.Errorf("calls = %v, want composed then new_tags", fp.calls)
	}
	if fp.lastQuery.TagIDs[0] != "fresh" {
		t.Errorf("new_tags query sent %v", fp.lastQuery.TagIDs)
	}
}

func TestDispatch_CascadeEndsAtProfileCore(t *testing.T) {
	fp := &fakeProvider{
		insightsByTag: map[string][]recommendation.Entity{
			"urn:tag:cuisine:indian": {entity("profile-pick")},
		},
	}
	svc := New(fp, Config{}, zap.NewNop())

	req := placeRequest(nil, []string{"t1"})
	req.Profile = taste.Profile{AffinityTags: []string{
		"urn:tag:category:place:school",
		"urn:tag:cuisine:indian",
	}}
	got := svc.Dispatch(context.Background(), req)

	if got.IsEmpty() || got.Entities[0].ID != "profile-pick" {
		t.Fatalf("result = %+v", got)
	}
	if fp.lastQuery.TagIDs[0] != "urn:tag:cuisine:indian" {
		t.Errorf("profile core sent %v, school tag must be filtered", fp.lastQuery.TagIDs)
	}
}

func TestDispatch_HardErrorStopsCascade(t *testing.T) {
	fp := &fakeProvider{insightsErr: errors.New("rate limited")}
	svc := New(fp, Config{}, zap.NewNop())

	got := svc.Dispatch(context.Background(), placeRequest(nil, []string{"t1"}))

	if !got.HasError() {
		t.Fatal("expected soft-error result")
	}
	if len(fp.calls) != 1 {
		t.Errorf("calls = %v, cascade must stop on hard error", fp.calls)
	}
}

func TestDispatch_ArtistRemapForMusicAsks(t *testing.T) {
	fp := &fakeProvider{insightsByTag: map[string][]recommendation.Entity{}}
	svc := New(fp, Config{}, zap.NewNop())

	req := placeRequest(nil, []string{"t1"})
	req.NewTagIDs = []string{"t1"}
	req.FreeIntent = "live music tonight"
	svc.Dispatch(context.Background(), req)

	// composed, new_tags, artist_remap, generic_place, all miss
	if len(fp.calls) != 4 {
		t.Fatalf("calls = %v", fp.calls)
	}
}

func TestDispatch_TrendingPlaceRemapsByMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"movie ask", "what movie screenings are trending at the cinema", "trending:movie"},
		{"music ask", "trending live music around here", "trending:artist"},
		{"plain ask", "what's trending nearby", "trending:artist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProvider{
				trendingEntities: map[category.Category][]recommendation.Entity{
					category.Movie:  {entity("m1")},
					category.Artist: {entity("a1")},
				},
			}
			svc := New(fp, Config{}, zap.NewNop())

			p, _ := intent.New(intent.Trending, string(category.Place), intent.Signals{})
			got := svc.Dispatch(context.Background(), Request{Parsed: p, FreeIntent: tt.message})

			if got.IsEmpty() {
				t.Fatalf("result = %+v", got)
			}
			if len(fp.calls) != 1 || fp.calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", fp.calls, tt.want)
			}
		})
	}
}

func TestDispatch_TrendingErrorRescuedByInsights(t *testing.T) {
	fp := &fakeProvider{
		trendingErr:   errors.New("unsupported"),
		insightsByTag: map[string][]recommendation.Entity{"t1": {entity("e1")}},
	}
	svc := New(fp, Config{}, zap.NewNop())

	p, _ := intent.New(intent.Trending, string(category.Artist), intent.Signals{})
	got := svc.Dispatch(context.Background(), Request{Parsed: p, TagIDs: []string{"t1"}})

	if got.IsEmpty() {
		t.Fatalf("result = %+v", got)
	}
}

func TestDispatch_TrendingRescueKeepsRemappedCategory(t *testing.T) {
	fp := &fakeProvider{
		trendingErr:   errors.New("unsupported"),
		insightsByTag: map[string][]recommendation.Entity{"t1": {entity("e1")}},
	}
	svc := New(fp, Config{}, zap.NewNop())

	p, _ := intent.New(intent.Trending, string(category.Place), intent.Signals{})
	svc.Dispatch(context.Background(), Request{
		Parsed:     p,
		TagIDs:     []string{"t1"},
		FreeIntent: "trending films this weekend",
	})

	if fp.lastQuery.Category != category.Movie {
		t.Errorf("rescue query category = %q, want movie", fp.lastQuery.Category)
	}
}

func TestDispatch_AnalysisUsesInsightsField(t *testing.T) {
	fp := &fakeProvider{analysisEntities: []recommendation.Entity{entity("a1")}}
	svc := New(fp, Config{}, zap.NewNop())

	p, _ := intent.New(intent.Analysis, string(category.Artist), intent.Signals{})
	got := svc.Dispatch(context.Background(), Request{Parsed: p, EntityIDs: []string{"ent-1"}})

	if len(got.Insights) != 1 || len(got.Entities) != 0 {
		t.Fatalf("result = %+v, analysis must land in Insights", got)
	}
}

func TestDispatch_GenericFallbackNeedsLocation(t *testing.T) {
	fp := &fakeProvider{}
	svc := New(fp, Config{}, zap.NewNop())

	req := placeRequest(nil, nil)
	req.Location = ""
	got := svc.Dispatch(context.Background(), req)

	if !got.IsEmpty() || len(fp.calls) != 0 {
		t.Errorf("result = %+v, calls = %v, want no queries without a location", got, fp.calls)
	}
}

func TestDispatch_GenericFallbackKeepsTargetCategory(t *testing.T) {
	fp := &fakeProvider{
		insightsByTag: map[string][]recommendation.Entity{
			genericPlaceTags[0]: {entity("generic")},
		},
	}
	svc := New(fp, Config{}, zap.NewNop())

	p, _ := intent.New(intent.Recommendation, string(category.Destination), intent.Signals{})
	got := svc.Dispatch(context.Background(), Request{Parsed: p, Location: "Lisbon"})

	if got.IsEmpty() {
		t.Fatalf("result = %+v", got)
	}
	if fp.lastQuery.Category != category.Destination {
		t.Errorf("generic query category = %q, want the original target", fp.lastQuery.Category)
	}
}

func TestDispatch_NothingApplicableReturnsEmpty(t *testing.T) {
	fp := &fakeProvider{}
	svc := New(fp, Config{}, zap.NewNop())

	p, _ := intent.New(intent.Recommendation, string(category.Book), intent.Signals{})
	got := svc.Dispatch(context.Background(), Request{Parsed: p})

	if !got.IsEmpty() || got.HasError() {
		t.Fatalf("result = %+v, want clean empty", got)
	}
}
