// Package openai is the text-completion provider using the OpenAI-compatible
// chat API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain"
	"github.com/zento-labs/zento/internal/metrics"
)

// Completer is a chat-completion provider with model rotation. Models are
// tried in configured order; transient API failures rotate to the next one.
type Completer struct {
	client      *openai.Client
	models      []string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Models         []string
	MaxTokens      int
	Temperature    float32
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.RequestTimeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		models:      cfg.Models,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete runs one chat completion. jsonMode forces a JSON object response.
// Each configured model is tried once, with a linearly growing pause between
// rotations.
func (c *Completer) Complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	for i, model := range c.models {
		if i > 0 {
			metrics.CompletionModelFallbacksTotal.Inc()
			if err := rotationPause(ctx, i); err != nil {
				break
			}
		}

		req.Model = model
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			metrics.CompletionRequestsTotal.WithLabelValues(model, "error").Inc()
			if !isRotatable(err) {
				return "", parseAPIError(err)
			}
			lastErr = err
			c.logger.Warn("completion model failed, rotating",
				zap.String("model", model),
				zap.Error(err))
			continue
		}

		if len(resp.Choices) == 0 {
			metrics.CompletionRequestsTotal.WithLabelValues(model, "error").Inc()
			lastErr = fmt.Errorf("empty completion response from %s", model)
			continue
		}

		metrics.CompletionRequestsTotal.WithLabelValues(model, "success").Inc()
		return resp.Choices[0].Message.Content, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return "", fmt.Errorf("all completion models failed: %w: %w", lastErr, domain.ErrCompletionUnavailable)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// rotatableStatuses are API statuses worth retrying on another model.
// 400 is included: some gateways report model-specific capability errors
// (e.g. unsupported response_format) as bad requests.
var rotatableStatuses = map[int]bool{
	400: true,
	429: true,
	500: true,
	503: true,
}

func isRotatable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return rotatableStatuses[apiErr.HTTPStatusCode]
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return rotatableStatuses[reqErr.HTTPStatusCode]
	}
	// Transport-level failure, the next model may route differently.
	return true
}

// rotationPause waits attempt seconds before the next model.
func rotationPause(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCompletionUnavailable for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}
