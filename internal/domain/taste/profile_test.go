package taste

import (
	"reflect"
	"testing"
)

func TestFilteredAffinityTags(t *testing.T) {
	p := Profile{AffinityTags: []string{
		"urn:tag:genre:media:drama",
		"urn:tag:genre:music:jazz",
		"urn:tag:category:place:medical_clinic",
		"urn:tag:cuisine:italian",
	}}

	got := p.FilteredAffinityTags([]string{"drama", "medical"}, 0)
	want := []string{"urn:tag:genre:music:jazz", "urn:tag:cuisine:italian"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilteredAffinityTags_Cap(t *testing.T) {
	p := Profile{AffinityTags: []string{"a", "b", "c", "d"}}

	got := p.FilteredAffinityTags(nil, 2)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
}

func TestTopPreferences(t *testing.T) {
	p := Profile{TagPreferences: []TagPreference{
		{Tag: "low", Weight: 3},
		{Tag: "high", Weight: 18},
		{Tag: "mid-a", Weight: 10},
		{Tag: "mid-b", Weight: 10},
	}}

	got := p.TopPreferences(3)
	want := []WeightedTag{
		{Tag: "high", Weight: 18},
		{Tag: "mid-a", Weight: 10},
		{Tag: "mid-b", Weight: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Input order is preserved
	if len(p.TagPreferences) != 4 || p.TagPreferences[0].Tag != "low" {
		t.Error("input slice was mutated")
	}
}

func TestKeywordsFromURNs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			"tag urns",
			[]string{"urn:tag:genre:media:science_fiction", "urn:tag:cuisine:place:thai"},
			[]string{"Science Fiction", "Thai"},
		},
		{
			"non-urn passthrough",
			[]string{"jazz", ""},
			[]string{"jazz"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordsFromURNs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
