// Package chat orchestrates the recommendation pipeline for one message:
// classify, resolve, compose, dispatch, format.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain/intent"
	"github.com/zento-labs/zento/internal/domain/recommendation"
	"github.com/zento-labs/zento/internal/usecase/classify"
	"github.com/zento-labs/zento/internal/usecase/dispatch"
	"github.com/zento-labs/zento/internal/usecase/format"
)

// TypeText marks a reply that carries no recommendations; replies with
// results carry the classified intent as their type.
const TypeText = "text"

// Response is one chat reply.
type Response struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Data    Data   `json:"data"`
}

// Data carries the structured payload alongside the conversational reply.
type Data struct {
	Recommendations   []recommendation.Entity `json:"recommendations,omitempty"`
	Intent            *intent.Parsed          `json:"intent,omitempty"`
	UserTasteKeywords []string                `json:"user_taste_keywords,omitempty"`
	Debug             *Debug                  `json:"debug,omitempty"`
}

// Debug summarizes what the pipeline did, for client-side diagnostics.
type Debug struct {
	TotalUserTags int    `json:"total_user_tags"`
	NewTagsFound  int    `json:"new_tags_found"`
	TagsUsed      int    `json:"tags_used"`
	ResultsFound  int    `json:"results_found"`
	Error         string `json:"error,omitempty"`
}

// Service is the chat pipeline orchestrator.
type Service struct {
	profiles   ProfileStore
	classifier Classifier
	resolver   Resolver
	composer   Composer
	dispatcher Dispatcher
	formatter  Formatter
	logger     *zap.Logger
}

// New creates the chat service.
func New(
	profiles ProfileStore,
	classifier Classifier,
	resolver Resolver,
	composer Composer,
	dispatcher Dispatcher,
	formatter Formatter,
	logger *zap.Logger,
) *Service {
	return &Service{
		profiles:   profiles,
		classifier: classifier,
		resolver:   resolver,
		composer:   composer,
		dispatcher: dispatcher,
		formatter:  formatter,
		logger:     logger,
	}
}

// Respond runs the full pipeline for one message. A missing profile
// surfaces as domain.ErrProfileNotFound so the handler can steer the user
// to onboarding.
func (s *Service) Respond(ctx context.Context, userID, message string, history []classify.Turn) (Response, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return Response{}, fmt.Errorf("load profile: %w", err)
	}

	tasteKeywords := profile.AffinityKeywords()

	parsed := s.classifier.Classify(ctx, message, tasteKeywords, history)

	resolution := s.resolver.Resolve(ctx, parsed)

	comp := s.composer.Compose(resolution.TagIDs, profile)

	location := parsed.Signals.LocationQuery
	if location == "" {
		location = profile.HomeCity
	}

	result := s.dispatcher.Dispatch(ctx, dispatch.Request{
		Parsed:     parsed,
		TagIDs:     comp.TagIDs,
		NewTagIDs:  resolution.TagIDs,
		Weighted:   comp.Weighted,
		EntityIDs:  resolution.EntityIDs,
		Profile:    profile,
		Location:   location,
		FreeIntent: message,
	})

	items := result.Items()

	s.logger.Info("pipeline completed",
		zap.String("intent", string(parsed.Intent)),
		zap.String("category", parsed.TargetCategory.ShortName()),
		zap.Int("new_tags", len(resolution.TagIDs)),
		zap.Int("tags_used", len(comp.TagIDs)),
		zap.Int("results", len(items)),
		zap.Bool("provider_error", result.HasError()))

	debug := &Debug{
		TotalUserTags: len(profile.AffinityTags),
		NewTagsFound:  len(resolution.TagIDs),
		TagsUsed:      len(comp.TagIDs),
		ResultsFound:  len(items),
		Error:         result.Err,
	}

	if len(items) == 0 {
		return Response{
			Content: format.FormatEmpty(parsed.TargetCategory, result.HasError()),
			Type:    TypeText,
			Data: Data{
				Intent:            &parsed,
				UserTasteKeywords: tasteKeywords,
				Debug:             debug,
			},
		}, nil
	}

	content := s.formatter.Format(ctx, format.Input{
		Message:       message,
		Parsed:        parsed,
		Entities:      items,
		TasteKeywords: tasteKeywords,
		Location:      location,
	})

	return Response{
		Content: content,
		Type:    string(parsed.Intent),
		Data: Data{
			Recommendations:   items,
			Intent:            &parsed,
			UserTasteKeywords: tasteKeywords,
			Debug:             debug,
		},
	}, nil
}
