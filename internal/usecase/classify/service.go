// Package classify turns a free-text chat message into a structured intent
// record, using the completion provider with a rule-based fallback.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/metrics"
)

// historyWindow is how many trailing conversation turns the classifier sees.
const historyWindow = 3

// tasteKeywordWindow caps how many profile keywords reach the prompt.
const tasteKeywordWindow = 8

// Turn is one prior conversation turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service classifies messages into intents.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a classifier service.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

const systemPrompt = `You are an intent classifier for a cultural recommendation assistant.
Respond with exactly one JSON object, no prose:
{
  "intent": one of "recommendation", "itinerary", "refine", "explore", "analysis", "trending",
  "target_category": one of "urn:entity:place", "urn:entity:book", "urn:entity:movie", "urn:entity:artist", "urn:entity:brand", "urn:entity:destination", "urn:entity:tv_show", "urn:entity:video_game", "urn:entity:podcast", "urn:entity:person",
  "signals": {
    "tags_to_find": [up to 8 short search keywords taken from the user's own words],
    "location_query": "city or neighborhood the user named, else null",
    "specific_entities": [names of concrete places, artists, or works the user mentioned]
  }
}
Never invent a location the user did not name.`

// Classify derives a structured intent from the message. Any completion or
// parse failure falls back to the rule-based classifier, so this never
// fails the request.
func (s *Service) Classify(ctx context.Context, message string, tasteKeywords []string, history []Turn) intent.Parsed {
	raw, err := s.completer.Complete(ctx, systemPrompt, buildUserPrompt(message, tasteKeywords, history), true)
	if err != nil {
		s.fallback("completion failed", err)
		return RuleBased(message)
	}

	parsed, err := intent.ParseCompletion(raw)
	if err != nil {
		s.fallback("unparseable completion output", err)
		return RuleBased(message)
	}

	return parsed
}

func (s *Service) fallback(reason string, err error) {
	metrics.ClassifierRuleFallbacksTotal.Inc()
	s.logger.Warn("intent classification fell back to rules",
		zap.String("reason", reason),
		zap.Error(err))
}

// buildUserPrompt embeds the user's taste keywords, the trailing
// conversation window, and the current message.
func buildUserPrompt(message string, tasteKeywords []string, history []Turn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(tasteKeywords) > tasteKeywordWindow {
		tasteKeywords = tasteKeywords[:tasteKeywordWindow]
	}

	var b strings.Builder
	if len(tasteKeywords) > 0 {
		fmt.Fprintf(&b, "User's taste interests: %s\n\n", strings.Join(tasteKeywords, ", "))
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Current message: %s", message)
	return b.String()
}
