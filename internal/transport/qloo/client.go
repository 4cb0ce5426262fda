// Package qloo is the HTTP client for the taste-graph insights provider.
package qloo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain"
	"github.com/zento-labs/zento/internal/metrics"
)

const (
	defaultTake     = 10
	maxBackoff      = 8 * time.Second
	tagResultCap    = 10
	entityResultCap = 5
)

// Config holds the insights provider settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	QueryTagCap int
	Logger      *zap.Logger
}

// Client talks to the insights provider with retry and backoff.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	maxRetries  int
	queryTagCap int
	logger      *zap.Logger
}

// NewClient creates an insights provider client.
func NewClient(cfg *Config) *Client {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	tagCap := cfg.QueryTagCap
	if tagCap <= 0 {
		tagCap = 3
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		maxRetries:  retries,
		queryTagCap: tagCap,
		logger:      cfg.Logger,
	}
}

// getJSON performs a GET with retry and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	return c.do(ctx, endpoint, func() (*http.Request, error) {
		u := c.baseURL + path
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}, out)
}

// postJSON performs a POST with a JSON body, retry, and decodes into out.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}
	return c.do(ctx, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

// do runs the request with exponential backoff on transient failures.
// Auth and not-found responses fail immediately.
func (c *Client) do(ctx context.Context, endpoint string, build func() (*http.Request, error), out any) error {
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				break
			}
		}

		req, err := build()
		if err != nil {
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("build %s request: %w", endpoint, err)
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("insights request failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
				return fmt.Errorf("decode %s response: %w: %w", endpoint, err, domain.ErrInsightsUnavailable)
			}
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "success").Inc()
			metrics.InsightsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			return nil
		case resp.StatusCode == http.StatusUnauthorized:
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrUnauthorized)
		case resp.StatusCode == http.StatusForbidden:
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrForbidden)
		case resp.StatusCode == http.StatusNotFound:
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)
		case isTransient(resp.StatusCode):
			lastErr = statusError(resp.StatusCode, body)
			c.logger.Warn("insights request transient failure",
				zap.String("endpoint", endpoint),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1))
			continue
		default:
			metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%s: %w: %w", endpoint, statusError(resp.StatusCode, body), domain.ErrInsightsUnavailable)
		}
	}

	metrics.InsightsRequestsTotal.WithLabelValues(endpoint, "error").Inc()

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	var se *httpStatusError
	if errors.As(lastErr, &se) && se.status == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %w", endpoint, lastErr, domain.ErrRateLimited)
	}
	return fmt.Errorf("%s after %d attempts: %w: %w", endpoint, c.maxRetries, lastErr, domain.ErrInsightsUnavailable)
}

func isTransient(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	if e.body != "" {
		return "status " + strconv.Itoa(e.status) + ": " + e.body
	}
	return "status " + strconv.Itoa(e.status)
}

func statusError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &httpStatusError{status: status, body: strings.TrimSpace(msg)}
}

// sleepBackoff waits 2^(attempt-1) seconds, capped, honoring ctx cancellation.
func sleepBackoff(ctx context.Context, attempt int) error {
	delay := time.Duration(1<<(attempt-1)) * time.Second
	if delay > maxBackoff {
		delay = maxBackoff
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// usableLocation reports whether a location query should be sent upstream.
// Vague self-references ("my area", "the area") carry no geo signal.
func usableLocation(loc string) bool {
	loc = strings.ToLower(strings.TrimSpace(loc))
	return loc != "" && !strings.Contains(loc, "area")
}
