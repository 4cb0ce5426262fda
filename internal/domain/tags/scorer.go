// Package tags ranks tag URNs for relevance to a query before they are
// spent against the external insights provider.
package tags

import (
	"sort"
	"strings"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/keyword"
)

// Tag is one resolved tag from the insights provider.
type Tag struct {
	ID   string
	Name string
	Type string
}

// Irrelevant lists substrings of tag URNs that never produce useful
// recommendations in a casual consumer context.
var Irrelevant = []string{
	"physician", "doctor", "medical", "hospital", "clinic", "health",
	"school", "education", "teacher", "academic", "university",
	"victim_service", "social_service", "government", "office", "admin",
	"lawyer", "attorney", "legal", "court", "law",
	"counselor", "insurance", "bank", "financial", "mortgage", "loan",
	"real_estate", "property", "construction", "maintenance",
}

// IsIrrelevant reports whether a tag identifier contains any irrelevant
// substring.
func IsIrrelevant(id string) bool {
	return containsAny(strings.ToLower(id), Irrelevant)
}

// FilterIrrelevant drops tag URNs containing any irrelevant substring,
// preserving order.
func FilterIrrelevant(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if IsIrrelevant(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Prioritize returns the tag URNs ordered by descending relevance to the
// target category and the user's free-text intent. Irrelevant tags are
// dropped entirely. The sort is stable so equal scores keep input order.
func Prioritize(ids []string, cat category.Category, freeIntent string) []string {
	intentWords := keyword.IntentKeywords(freeIntent)

	type scored struct {
		id    string
		score int
	}
	ranked := make([]scored, 0, len(ids))
	for _, id := range ids {
		lower := strings.ToLower(id)
		if containsAny(lower, Irrelevant) {
			continue
		}
		ranked = append(ranked, scored{id: id, score: score(lower, cat, intentWords)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.id
	}
	return out
}

// taxonomy tiers per category. A tag matching the first prefix of its
// category group outranks any count of thematic bonuses.
var taxonomyTiers = map[category.Category][]tier{
	category.Place: {
		{"urn:tag:category:place", 500},
		{"urn:tag:genre:place", 400},
		{"urn:tag:cuisine", 300},
		{"urn:tag:amenity:place", 250},
		{"urn:tag:atmosphere", 200},
	},
	category.Book: {
		{"urn:tag:genre:media", 500},
		{"urn:tag:theme", 400},
		{"urn:tag:subgenre", 300},
		{"urn:tag:style", 200},
	},
	category.Movie: {
		{"urn:tag:genre:media", 500},
		{"urn:tag:theme", 400},
		{"urn:tag:subgenre", 300},
		{"urn:tag:style", 200},
	},
	category.TVShow: {
		{"urn:tag:genre:media", 500},
		{"urn:tag:theme", 400},
		{"urn:tag:subgenre", 300},
		{"urn:tag:style", 200},
	},
	category.Artist: {
		{"urn:tag:genre:music", 500},
		{"urn:tag:style", 400},
		{"urn:tag:subgenre", 300},
	},
	category.Brand: {
		{"urn:tag:category:brand", 500},
		{"urn:tag:industry", 400},
		{"urn:tag:style", 300},
	},
}

type tier struct {
	prefix string
	bonus  int
}

// thematic bonuses reward tags that travel well across categories.
var thematicBonuses = []struct {
	words []string
	bonus int
}{
	{[]string{"cultural", "authentic"}, 150},
	{[]string{"local", "traditional"}, 120},
	{[]string{"modern", "contemporary"}, 100},
	{[]string{"luxury", "premium"}, 80},
	{[]string{"casual", "relaxed"}, 60},
}

// profileBackground marks tags typical of stored profiles. They get a small
// floor so they survive ties but never displace query-derived tags.
var profileBackground = []string{"family", "indian", "bollywood", "asian"}

func score(lower string, cat category.Category, intentWords []string) int {
	total := 0

	for _, w := range intentWords {
		if strings.Contains(lower, w) {
			total += 1000
			break
		}
	}

	for _, t := range taxonomyTiers[cat] {
		if strings.HasPrefix(lower, t.prefix) {
			total += t.bonus
			break
		}
	}

	for _, tb := range thematicBonuses {
		if containsAny(lower, tb.words) {
			total += tb.bonus
			break
		}
	}

	if containsAny(lower, profileBackground) {
		total += 10
	}

	return total
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
