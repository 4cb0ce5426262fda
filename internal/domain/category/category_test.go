package category

import "testing"

func TestValidate(t *testing.T) {
	if got := Validate("urn:entity:book"); got != Book {
		t.Errorf("got %q, want book", got)
	}
	if got := Validate("urn:entity:spaceship"); got != Place {
		t.Errorf("got %q, want place fallback", got)
	}
	if got := Validate(""); got != Place {
		t.Errorf("got %q, want place fallback", got)
	}
}

func TestShortName(t *testing.T) {
	if got := TVShow.ShortName(); got != "tv_show" {
		t.Errorf("got %q", got)
	}
}

func TestFromMessage(t *testing.T) {
	tests := []struct {
		message string
		want    Category
	}{
		{"recommend me a good book", Book},
		{"any movies like Blade Runner", Movie},
		{"a tv show to binge", TVShow},
		{"bands similar to Radiohead", Artist},
		{"fun video game for the weekend", VideoGame},
		{"podcast about history", Podcast},
		{"where should I travel next", Destination},
		{"sneaker brand suggestions", Brand},
		{"cozy restaurant nearby", Place},
		{"surprise me", Place},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := FromMessage(tt.message); got != tt.want {
				t.Errorf("FromMessage(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
