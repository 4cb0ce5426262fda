package health

import (
	"context"
	"errors"
	"testing"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockCompletionChecker struct {
	err error
}

func (m *mockCompletionChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCompletionChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["completion"] != CheckOK {
		t.Errorf("expected completion %q, got %q", CheckOK, r.Checks["completion"])
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("connection refused")}, &mockCompletionChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_NilCompletionSkipped(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["completion"]; ok {
		t.Error("completion check should be absent when checker is nil")
	}
}
