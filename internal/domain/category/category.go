// Package category defines the entity categories a recommendation query can
// target and the keyword rules that infer a category from free text.
package category

import "strings"

// Category identifies the kind of thing being recommended, in URN form.
type Category string

// Supported entity categories.
const (
	Place       Category = "urn:entity:place"
	Book        Category = "urn:entity:book"
	Movie       Category = "urn:entity:movie"
	Artist      Category = "urn:entity:artist"
	Brand       Category = "urn:entity:brand"
	Destination Category = "urn:entity:destination"
	TVShow      Category = "urn:entity:tv_show"
	VideoGame   Category = "urn:entity:video_game"
	Podcast     Category = "urn:entity:podcast"
	Person      Category = "urn:entity:person"
)

// All lists every supported category.
var All = []Category{
	Place, Book, Movie, Artist, Brand,
	Destination, TVShow, VideoGame, Podcast, Person,
}

// IsValid reports whether c is a supported category.
func (c Category) IsValid() bool {
	for _, v := range All {
		if c == v {
			return true
		}
	}
	return false
}

// ShortName returns the category without the urn:entity: prefix.
func (c Category) ShortName() string {
	return strings.TrimPrefix(string(c), "urn:entity:")
}

// Validate returns c when supported and Place otherwise. Unsupported values
// come from completion output, which is untrusted.
func Validate(raw string) Category {
	c := Category(raw)
	if c.IsValid() {
		return c
	}
	return Place
}

// rule maps message substrings to a category. Rules are evaluated in order;
// the first rule with any matching pattern wins.
type rule struct {
	patterns []string
	category Category
}

// fromMessageRules infers a target category from a lower-cased message.
// Multi-word patterns ("tv show") must precede their generic collisions.
var fromMessageRules = []rule{
	{[]string{"book", "novel", "read", "literature", "author", "publisher", "library"}, Book},
	{[]string{"movie", "film", "cinema", "director", "actor"}, Movie},
	{[]string{"tv show", "tv series", "series", "episode"}, TVShow},
	{[]string{"music", "artist", "band", "song", "album", "concert", "musician"}, Artist},
	{[]string{"video game", "gaming", "game"}, VideoGame},
	{[]string{"podcast", "listen", "audio show"}, Podcast},
	{[]string{"travel", "destination", "city", "country", "visit"}, Destination},
	{[]string{"brand", "product", "shopping", "buy", "retail"}, Brand},
	{[]string{"celebrity", "person", "people", "famous"}, Person},
	{[]string{"restaurant", "cafe", "bar", "venue", "place"}, Place},
}

// FromMessage infers the target category from free text, defaulting to Place.
func FromMessage(message string) Category {
	msg := strings.ToLower(message)
	for _, r := range fromMessageRules {
		for _, p := range r.patterns {
			if strings.Contains(msg, p) {
				return r.category
			}
		}
	}
	return Place
}
