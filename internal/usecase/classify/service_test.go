package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/intent"
)

type fakeCompleter struct {
	response string
	err      error
	system   string
	user     string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, _ bool) (string, error) {
	f.system = system
	f.user = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestClassify_UsesCompletionOutput(t *testing.T) {
	fc := &fakeCompleter{response: `{
		"intent": "recommendation",
		"target_category": "urn:entity:place",
		"signals": {
			"tags_to_find": ["coffee", "espresso"],
			"location_query": "Berlin",
			"specific_entities": []
		}
	}`}
	svc := New(fc, zap.NewNop())

	got := svc.Classify(context.Background(), "find me a coffee spot in Berlin", nil, nil)
	if got.Intent != intent.Recommendation {
		t.Errorf("intent = %q", got.Intent)
	}
	if got.TargetCategory != category.Place {
		t.Errorf("category = %q", got.TargetCategory)
	}
	if got.Signals.LocationQuery != "Berlin" {
		t.Errorf("location = %q", got.Signals.LocationQuery)
	}
	if len(got.Signals.TagsToFind) != 2 {
		t.Errorf("tags = %v", got.Signals.TagsToFind)
	}
}

func TestClassify_FallsBackOnCompletionError(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("provider down")}
	svc := New(fc, zap.NewNop())

	got := svc.Classify(context.Background(), "plan a day in Lisbon", nil, nil)
	if got.Intent != intent.Itinerary {
		t.Errorf("intent = %q, want itinerary from rules", got.Intent)
	}
	if got.Signals.LocationQuery != "Lisbon" {
		t.Errorf("location = %q, want Lisbon", got.Signals.LocationQuery)
	}
}

func TestClassify_FallsBackOnGarbageOutput(t *testing.T) {
	fc := &fakeCompleter{response: "Sure! Here are some thoughts..."}
	svc := New(fc, zap.NewNop())

	got := svc.Classify(context.Background(), "recommend a coffee shop", nil, nil)
	if got.Intent != intent.Recommendation {
		t.Errorf("intent = %q", got.Intent)
	}
	if len(got.Signals.TagsToFind) == 0 {
		t.Error("rule fallback produced no keywords")
	}
}

func TestClassify_TasteKeywordsWindowed(t *testing.T) {
	fc := &fakeCompleter{response: `{"intent":"recommendation","target_category":"urn:entity:place","signals":{"tags_to_find":[],"location_query":null,"specific_entities":[]}}`}
	svc := New(fc, zap.NewNop())

	keywords := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9"}
	svc.Classify(context.Background(), "anything good nearby", keywords, nil)

	if !strings.Contains(fc.user, "k1") || !strings.Contains(fc.user, "k8") {
		t.Errorf("prompt missing taste keywords: %q", fc.user)
	}
	if strings.Contains(fc.user, "k9") {
		t.Error("prompt includes keywords beyond the window")
	}
}

func TestClassify_HistoryWindowed(t *testing.T) {
	fc := &fakeCompleter{response: `{"intent":"refine","target_category":"urn:entity:place","signals":{"tags_to_find":[],"location_query":null,"specific_entities":[]}}`}
	svc := New(fc, zap.NewNop())

	history := []Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
		{Role: "assistant", Content: "fourth"},
	}
	svc.Classify(context.Background(), "something different", nil, history)

	if strings.Contains(fc.user, "first") {
		t.Error("prompt includes turns beyond the window")
	}
	for _, want := range []string{"second", "third", "fourth"} {
		if !strings.Contains(fc.user, want) {
			t.Errorf("prompt missing windowed turn %q", want)
		}
	}
}
