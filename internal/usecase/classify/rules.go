package classify

import (
	"strings"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/keyword"
)

// intentRules map message substrings to intent types, evaluated in order.
var intentRules = []struct {
	patterns []string
	intent   intent.Type
}{
	{[]string{"plan", "itinerary", "day", "schedule"}, intent.Itinerary},
	{[]string{"refine", "different", "other", "instead", "something else"}, intent.Refine},
	{[]string{"trend", "popular right now", "hot right now"}, intent.Trending},
	{[]string{"analyz", "analys", "why do i", "explain my"}, intent.Analysis},
	{[]string{"explore", "discover", "new", "surprise"}, intent.Explore},
}

// locationPrepositions introduce a place reference in casual text.
var locationPrepositions = map[string]bool{
	"in": true, "at": true, "near": true, "around": true, "visit": true,
}

// locationStopwords never name a concrete place.
var locationStopwords = map[string]bool{
	"my": true, "your": true, "his": true, "her": true, "their": true,
	"our": true, "this": true, "that": true, "the": true, "a": true,
	"an": true, "area": true, "place": true, "vicinity": true,
	"neighborhood": true,
}

// RuleBased classifies a message without the completion provider. It is the
// degraded path: coarse but deterministic.
func RuleBased(message string) intent.Parsed {
	lower := strings.ToLower(message)

	t := intent.Recommendation
	for _, r := range intentRules {
		if containsAny(lower, r.patterns) {
			t = r.intent
			break
		}
	}

	signals := intent.Signals{
		TagsToFind:    extractKeywords(message),
		LocationQuery: extractLocation(message),
	}

	parsed, _ := intent.New(t, string(category.FromMessage(message)), signals)
	return parsed
}

// extractKeywords uses the shared keyword clusters, falling back to the
// first substantive token of the message.
func extractKeywords(message string) []string {
	if kws := keyword.Extract(message); len(kws) > 0 {
		return kws
	}
	for _, tok := range strings.Fields(strings.ToLower(message)) {
		tok = strings.Trim(tok, ".,!?;:'\"")
		if len(tok) > 2 && !locationStopwords[tok] && !locationPrepositions[tok] {
			return []string{tok}
		}
	}
	return nil
}

// extractLocation scans for a place name after a location preposition.
// Consecutive capitalized words are joined ("New York").
func extractLocation(message string) string {
	words := strings.Fields(message)
	for i, w := range words {
		if !locationPrepositions[strings.ToLower(w)] || i+1 >= len(words) {
			continue
		}

		var parts []string
		for j := i + 1; j < len(words) && len(parts) < 3; j++ {
			tok := strings.Trim(words[j], ".,!?;:'\"")
			if tok == "" {
				break
			}
			if locationStopwords[strings.ToLower(tok)] {
				if len(parts) > 0 {
					break
				}
				continue
			}
			if len(parts) > 0 && !startsUpper(tok) {
				break
			}
			parts = append(parts, tok)
			if !startsUpper(tok) {
				break
			}
		}

		candidate := strings.Join(parts, " ")
		if len(candidate) > 2 && !strings.Contains(strings.ToLower(candidate), "area") {
			return candidate
		}
	}
	return ""
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
