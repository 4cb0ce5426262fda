// Package keyword holds the data-driven keyword cluster tables shared by the
// rule-based classifier and the tag scorer. A cluster pairs trigger
// substrings with the search keywords they imply.
package keyword

import "strings"

// Cluster maps trigger substrings in free text to a set of domain keywords.
type Cluster struct {
	Triggers []string
	Keywords []string
}

// Matches reports whether any trigger occurs in the lower-cased text.
func (c Cluster) Matches(lower string) bool {
	for _, t := range c.Triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// ExtractionClusters drive keyword extraction in the rule-based classifier.
// Every matching cluster contributes its keywords.
var ExtractionClusters = []Cluster{
	{[]string{"coffee", "cafe"}, []string{"coffee", "cafe", "espresso"}},
	{[]string{"restaurant", "dining", "food", "eat", "cuisine"}, []string{"restaurant", "dining", "cuisine"}},
	{[]string{"bar", "cocktail", "drink", "pub", "nightlife"}, []string{"bar", "cocktail", "nightlife"}},
	{[]string{"music", "concert", "live"}, []string{"live music", "concert", "venue"}},
	{[]string{"theater", "cinema", "show"}, []string{"theater", "cinema", "entertainment"}},
	{[]string{"museum", "gallery", "art"}, []string{"museum", "gallery", "cultural"}},
	{[]string{"shopping", "mall", "store", "retail"}, []string{"shopping", "retail", "boutique"}},
	{[]string{"park", "outdoor", "nature"}, []string{"park", "outdoor", "recreation"}},
	{[]string{"gym", "fitness", "sport"}, []string{"gym", "fitness", "wellness"}},
	{[]string{"cultural", "authentic", "local"}, []string{"cultural", "authentic", "local"}},
	{[]string{"traditional", "heritage"}, []string{"traditional", "heritage"}},
	{[]string{"luxury", "premium", "upscale"}, []string{"luxury", "premium"}},
	{[]string{"casual", "relaxed", "chill"}, []string{"casual", "relaxed"}},
}

// Extract returns the union of keywords for every cluster triggered by text,
// preserving table order. Returns nil when nothing matches.
func Extract(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, c := range ExtractionClusters {
		if c.Matches(lower) {
			out = append(out, c.Keywords...)
		}
	}
	return out
}

// IntentClusters drive the intent-keyword boost in the tag scorer. They
// extend the extraction clusters with entertainment, shopping, outdoor, and
// accommodation variants. Evaluated in order; the first match wins.
var IntentClusters = []Cluster{
	{[]string{"coffee", "cafe"}, []string{"coffee", "cafe", "cafeteria", "espresso"}},
	{[]string{"restaurant", "dining", "food", "eat"}, []string{"restaurant", "dining", "cuisine", "food", "eatery"}},
	{[]string{"bar", "drink", "cocktail", "pub"}, []string{"bar", "cocktail", "drink", "pub", "nightlife"}},
	{[]string{"music", "concert", "live", "venue"},
		[]string{"music", "concert", "live", "venue", "hall", "performance", "entertainment", "nightlife"}},
	{[]string{"theater", "cinema", "show", "movie"},
		[]string{"theater", "cinema", "show", "performance", "entertainment", "movie", "film"}},
	{[]string{"museum", "gallery", "cultural", "art"},
		[]string{"museum", "gallery", "cultural", "art", "history", "exhibition"}},
	{[]string{"shopping", "store", "mall", "retail"},
		[]string{"shopping", "store", "retail", "mall", "boutique", "market"}},
	{[]string{"park", "outdoor", "nature", "recreation"},
		[]string{"park", "outdoor", "nature", "recreation", "leisure"}},
	{[]string{"gym", "fitness", "sport", "exercise"},
		[]string{"gym", "fitness", "sport", "exercise", "wellness"}},
	{[]string{"hotel", "stay", "accommodation", "lodging"},
		[]string{"hotel", "accommodation", "stay", "lodge", "resort"}},
	{[]string{"cultural", "authentic", "local", "traditional"},
		[]string{"cultural", "authentic", "local", "traditional", "heritage"}},
}

// IntentKeywords returns the keyword set of the first intent cluster
// triggered by text, or nil when none match.
func IntentKeywords(text string) []string {
	lower := strings.ToLower(text)
	for _, c := range IntentClusters {
		if c.Matches(lower) {
			return c.Keywords
		}
	}
	return nil
}
