// Package chi is the HTTP transport for the chat recommendation API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain"
	chatuc "github.com/zento-labs/zento/internal/usecase/chat"
	"github.com/zento-labs/zento/internal/usecase/classify"
	healthuc "github.com/zento-labs/zento/internal/usecase/health"
)

const maxMessageLen = 4000

// errorCode identifies a machine-readable API error.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeValidationFailed    errorCode = "validation_failed"
	codeOnboardingRequired  errorCode = "onboarding_required"
	codeNotFound            errorCode = "not_found"
	codeRateLimited         errorCode = "rate_limited"
	codeProviderUnavailable errorCode = "provider_unavailable"
	codeInternalError       errorCode = "internal_error"
)

// onboardingMessage steers users without a stored profile.
const onboardingMessage = "I don't know your taste yet. Complete onboarding first so I can personalize recommendations for you."

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

type chatService interface {
	Respond(ctx context.Context, userID, message string, history []classify.Turn) (chatuc.Response, error)
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API server.
type Server struct {
	chat          chatService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(chat chatService, health healthService, logger *zap.Logger) *Server {
	s := &Server{
		chat:   chat,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		onboardingHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrInvalidIntent, http.StatusBadRequest, codeBadRequest),
		// Provider credential errors are our misconfiguration, not the
		// caller's: they surface as a bad gateway.
		sentinelHandler(domain.ErrUnauthorized, http.StatusBadGateway, codeProviderUnavailable),
		sentinelHandler(domain.ErrForbidden, http.StatusBadGateway, codeProviderUnavailable),
		sentinelHandler(domain.ErrInsightsUnavailable, http.StatusBadGateway, codeProviderUnavailable),
		sentinelHandler(domain.ErrCompletionUnavailable, http.StatusBadGateway, codeProviderUnavailable),
	}
	return s
}

// Routes mounts the API routes.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/chat", s.Chat)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type chatRequest struct {
	UserID  string          `json:"user_id"`
	Message string          `json:"message"`
	History []classify.Turn `json:"history,omitempty"`
}

// Chat handles POST /api/v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "message is required")
		return
	}
	if len(req.Message) > maxMessageLen {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "message is too long")
		return
	}

	resp, err := s.chat.Respond(r.Context(), req.UserID, req.Message, req.History)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProfileNotFound,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrInvalidIntent,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrInsightsUnavailable,
		domain.ErrCompletionUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// onboardingHandler handles ErrProfileNotFound with a user-facing nudge.
func onboardingHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeOnboardingRequired, onboardingMessage)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
