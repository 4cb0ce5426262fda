// Package format renders pipeline results into conversational replies,
// using the completion provider with a deterministic template fallback.
package format

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
)

// entityWindow caps how many results reach the reply; the deterministic
// template shows fewer.
const (
	entityWindow   = 8
	templateWindow = 3
)

// Completer generates chat completions.
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// Service formats pipeline results.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a formatter service.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Input is everything the formatter needs for one reply.
type Input struct {
	Message       string
	Parsed        intent.Parsed
	Entities      []recommendation.Entity
	TasteKeywords []string
	Location      string
}

// intentVoice tailors the reply register per intent.
var intentVoice = map[intent.Type]string{
	intent.Recommendation: "Present these as personal recommendations matched to the user's taste.",
	intent.Itinerary:      "Arrange these into a practical plan for the day, in a sensible visiting order.",
	intent.Refine:         "Present these as fresh alternatives to what the user saw before.",
	intent.Explore:        "Present these as discoveries slightly outside the user's usual taste.",
	intent.Analysis:       "Explain what these say about the user's taste and how their interests connect.",
	intent.Trending:       "Present these as what is trending right now, with energy.",
}

// Format renders the entities into a reply. Completion failure degrades to
// a deterministic markdown template, never an error: by this point the
// pipeline has results and the user gets them.
func (s *Service) Format(ctx context.Context, in Input) string {
	if len(in.Entities) > entityWindow {
		in.Entities = in.Entities[:entityWindow]
	}

	reply, err := s.completer.Complete(ctx, s.systemPrompt(in), buildUserPrompt(in), false)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.logger.Warn("reply formatting fell back to template", zap.Error(err))
		return Template(in)
	}
	return reply
}

func (s *Service) systemPrompt(in Input) string {
	voice := intentVoice[in.Parsed.Intent]
	if voice == "" {
		voice = intentVoice[intent.Recommendation]
	}
	return fmt.Sprintf(`You are a warm, knowledgeable cultural concierge.
%s
Use markdown. Bold each name. Keep each item to one or two sentences and tie it to the user's taste where it fits naturally.
End with two short follow-up suggestions, each on its own line starting with 👉.
Never mention tags, data sources, or internal identifiers.`, voice)
}

func buildUserPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User asked: %s\n", in.Message)
	if in.Location != "" {
		fmt.Fprintf(&b, "Location context: %s\n", in.Location)
	}
	if len(in.TasteKeywords) > 0 {
		fmt.Fprintf(&b, "User's taste: %s\n", strings.Join(in.TasteKeywords, ", "))
	}
	b.WriteString("\nResults:\n")
	for i, e := range in.Entities {
		fmt.Fprintf(&b, "%d. %s", i+1, e.DisplayName())
		if e.Description != "" {
			fmt.Fprintf(&b, " - %s", e.Description)
		}
		if e.Location != nil && e.Location.City != "" {
			fmt.Fprintf(&b, " (%s)", e.Location.City)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Template is the deterministic reply used when the completion provider is
// down.
func Template(in Input) string {
	interest := "unique"
	if len(in.TasteKeywords) > 0 {
		interest = in.TasteKeywords[0]
	}

	entities := in.Entities
	if len(entities) > templateWindow {
		entities = entities[:templateWindow]
	}

	var b strings.Builder
	b.WriteString("Here's what I found for you:\n\n")
	for _, e := range entities {
		name := e.DisplayName()
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "**%s**", name)
		if e.Description != "" {
			fmt.Fprintf(&b, " - %s", e.Description)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "*Why you'll like it:* Perfect for your %s interests!\n\n", interest)
	}
	b.WriteString("👉 Want more options like these?\n")
	b.WriteString("👉 Tell me a neighborhood or mood and I'll narrow it down.")
	return b.String()
}

// emptySuggestions offers a concrete next step per category.
var emptySuggestions = map[category.Category]string{
	category.Place:       "Try naming a cuisine, a vibe, or a neighborhood, like \"cozy ramen spot in Shibuya\".",
	category.Book:        "Try a genre or an author you liked, like \"books similar to Murakami\".",
	category.Movie:       "Try a genre or a film you loved, like \"movies like Spirited Away\".",
	category.Artist:      "Try a genre or an artist you already enjoy, like \"artists similar to Khruangbin\".",
	category.Destination: "Try a region or a travel style, like \"quiet coastal towns in Portugal\".",
}

// FormatEmpty renders the no-results reply. hadError switches to wording
// that blames a temporary problem instead of the user's ask.
func FormatEmpty(cat category.Category, hadError bool) string {
	suggestion := emptySuggestions[cat]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Try being more specific about the %s you're after.",
			strings.ReplaceAll(cat.ShortName(), "_", " "))
	}

	if hadError {
		return fmt.Sprintf(
			"I'm having trouble reaching my recommendation sources right now. Give it another try in a moment.\n\n%s",
			suggestion)
	}
	return fmt.Sprintf(
		"I couldn't find a good match for that one.\n\n%s", suggestion)
}
