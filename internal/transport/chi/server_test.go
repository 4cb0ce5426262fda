package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/domain"
	chatuc "github.com/zento-labs/zento/internal/usecase/chat"
	"github.com/zento-labs/zento/internal/usecase/classify"
	healthuc "github.com/zento-labs/zento/internal/usecase/health"
)

type fakeChat struct {
	resp chatuc.Response
	err  error
}

func (f *fakeChat) Respond(_ context.Context, _, _ string, _ []classify.Turn) (chatuc.Response, error) {
	return f.resp, f.err
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(_ context.Context) healthuc.Report {
	return f.report
}

func newTestRouter(chat chatService, health healthService) http.Handler {
	r := chi.NewRouter()
	NewServer(chat, health, zap.NewNop()).Routes(r)
	return r
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChat_OK(t *testing.T) {
	h := newTestRouter(&fakeChat{resp: chatuc.Response{
		Content: "Here you go!",
		Type:    "recommendation",
	}}, &fakeHealth{})

	rec := postChat(t, h, `{"user_id":"u1","message":"coffee nearby"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp chatuc.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Content != "Here you go!" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestChat_ValidatesInput(t *testing.T) {
	h := newTestRouter(&fakeChat{}, &fakeHealth{})

	tests := []struct {
		name string
		body string
	}{
		{"missing user", `{"message":"hi"}`},
		{"missing message", `{"user_id":"u1"}`},
		{"blank message", `{"user_id":"u1","message":"   "}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChat_OnboardingRequired(t *testing.T) {
	h := newTestRouter(&fakeChat{err: domain.ErrProfileNotFound}, &fakeHealth{})

	rec := postChat(t, h, `{"user_id":"new","message":"hi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != codeOnboardingRequired {
		t.Errorf("code = %q", resp.Code)
	}
	if !strings.Contains(resp.Message, "onboarding") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestChat_ProviderFailuresMapToBadGateway(t *testing.T) {
	h := newTestRouter(&fakeChat{err: domain.ErrInsightsUnavailable}, &fakeHealth{})

	rec := postChat(t, h, `{"user_id":"u1","message":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestChat_UnknownErrorIs500(t *testing.T) {
	h := newTestRouter(&fakeChat{err: context.DeadlineExceeded}, &fakeHealth{})

	rec := postChat(t, h, `{"user_id":"u1","message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "deadline") {
		t.Error("internal error details leaked to the client")
	}
}

func TestHealth_Degraded(t *testing.T) {
	h := newTestRouter(&fakeChat{}, &fakeHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := BearerAuthMiddleware([]string{"secret"})(inner)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid key", "/api/v1/chat", "Bearer secret", http.StatusOK},
		{"wrong key", "/api/v1/chat", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "/api/v1/chat", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/chat", "Basic secret", http.StatusUnauthorized},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
