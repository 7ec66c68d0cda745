package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
		{Status(-1), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestWorse_OrdersStatuses(t *testing.T) {
	if got := worse(StatusHealthy, StatusDegraded); got != StatusDegraded {
		t.Errorf("worse(healthy, degraded) = %v", got)
	}
	if got := worse(StatusUnhealthy, StatusDegraded); got != StatusUnhealthy {
		t.Errorf("worse(unhealthy, degraded) = %v", got)
	}
	if got := worse(StatusHealthy, StatusHealthy); got != StatusHealthy {
		t.Errorf("worse(healthy, healthy) = %v", got)
	}
}

func TestResultConstructors(t *testing.T) {
	h := Healthy("remote reachable")
	if h.Status != StatusHealthy || h.Message != "remote reachable" || h.Err != nil {
		t.Errorf("unexpected healthy result: %+v", h)
	}
	if h.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be stamped")
	}

	d := Degraded("circuit half-open, probing recovery")
	if d.Status != StatusDegraded || d.Err != nil {
		t.Errorf("unexpected degraded result: %+v", d)
	}

	cause := errors.New("connection refused")
	u := Unhealthy("probe failed", cause)
	if u.Status != StatusUnhealthy || !errors.Is(u.Err, cause) {
		t.Errorf("unexpected unhealthy result: %+v", u)
	}
}

func TestResult_With(t *testing.T) {
	res := Healthy("circuit closed").With(map[string]any{
		"state":                "closed",
		"consecutive_failures": 0,
	})
	if res.Details["state"] != "closed" {
		t.Errorf("expected state detail, got %v", res.Details)
	}
	if res.Status != StatusHealthy {
		t.Errorf("With() changed status to %v", res.Status)
	}
}

func TestNamed_AdaptsFunc(t *testing.T) {
	called := false
	checker := Named("cache", func(ctx context.Context) Result {
		called = true
		return Healthy("cache warm")
	})

	if checker.Name() != "cache" {
		t.Errorf("Name() = %q, want %q", checker.Name(), "cache")
	}
	res := checker.Check(context.Background())
	if !called {
		t.Fatal("check function was not invoked")
	}
	if res.Message != "cache warm" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestNamed_ContextReachesFunc(t *testing.T) {
	checker := Named("remote", func(ctx context.Context) Result {
		if err := ctx.Err(); err != nil {
			return Unhealthy("cancelled", err)
		}
		return Healthy("ok")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := checker.Check(ctx)
	if res.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy on cancelled context, got %v", res.Status)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Err)
	}
}

func TestUnhealthy_ZeroElapsedUntilRun(t *testing.T) {
	res := Unhealthy("down", ErrCheckFailed)
	if res.Elapsed != time.Duration(0) {
		t.Errorf("constructor should not stamp Elapsed, got %v", res.Elapsed)
	}
}
