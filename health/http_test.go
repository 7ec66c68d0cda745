package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func reportAggregator(results map[string]Result) *Aggregator {
	agg := NewAggregator(AggregatorConfig{})
	for name, res := range results {
		r := res
		agg.Register(Named(name, func(ctx context.Context) Result {
			return r
		}))
	}
	return agg
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessHandler_Verdicts(t *testing.T) {
	tests := []struct {
		name     string
		results  map[string]Result
		wantCode int
		wantBody string
	}{
		{
			name: "all dependencies up",
			results: map[string]Result{
				"circuit:patentsview": Healthy("circuit closed"),
				"remote":              Healthy("remote reachable"),
			},
			wantCode: http.StatusOK,
			wantBody: "healthy",
		},
		{
			name: "half-open circuit keeps serving",
			results: map[string]Result{
				"circuit:patentsview": Degraded("circuit half-open, probing recovery"),
				"remote":              Healthy("remote reachable"),
			},
			wantCode: http.StatusOK,
			wantBody: "degraded",
		},
		{
			name: "open circuit fails readiness",
			results: map[string]Result{
				"circuit:patentsview": Unhealthy("circuit open, rejecting calls", ErrCheckFailed),
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ReadinessHandler(reportAggregator(tt.results))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestReportHandler_JSONShape(t *testing.T) {
	agg := reportAggregator(map[string]Result{
		"circuit:patentsview": Healthy("circuit closed").With(map[string]any{"state": "closed"}),
		"remote":              Unhealthy("probe failed: connection refused", ErrCheckFailed),
	})

	rec := httptest.NewRecorder()
	ReportHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body ReportBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("report status = %q, want unhealthy", body.Status)
	}
	if body.CheckedAt == "" {
		t.Error("expected checked_at timestamp")
	}
	circuit, ok := body.Checks["circuit:patentsview"]
	if !ok {
		t.Fatalf("missing circuit check, got %v", body.Checks)
	}
	if circuit.Status != "healthy" || circuit.Details["state"] != "closed" {
		t.Errorf("unexpected circuit check: %+v", circuit)
	}
	if body.Checks["remote"].Error == "" {
		t.Error("expected remote check to carry its error")
	}
}

func TestReportHandler_DegradedAnswers200(t *testing.T) {
	agg := reportAggregator(map[string]Result{
		"remote": Degraded("probe slow: 1.2s"),
	})

	rec := httptest.NewRecorder()
	ReportHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for degraded", rec.Code)
	}
}

func TestCheckHandler_SingleCheck(t *testing.T) {
	agg := reportAggregator(map[string]Result{
		"circuit:patentsview": Degraded("circuit half-open, probing recovery"),
		"remote":              Healthy("remote reachable"),
	})

	rec := httptest.NewRecorder()
	CheckHandler(agg, "circuit:patentsview")(rec, httptest.NewRequest(http.MethodGet, "/health/circuit", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var body CheckBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("check status = %q, want degraded", body.Status)
	}
	if !strings.Contains(body.Message, "half-open") {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestCheckHandler_UnknownName(t *testing.T) {
	rec := httptest.NewRecorder()
	CheckHandler(reportAggregator(nil), "nothing")(rec, httptest.NewRequest(http.MethodGet, "/health/nothing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected error field in body")
	}
}

func TestRegisterHandlers_Routes(t *testing.T) {
	agg := reportAggregator(map[string]Result{
		"remote": Healthy("remote reachable"),
	})

	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)

	for path, wantBody := range map[string]string{
		"/healthz": "OK",
		"/readyz":  "healthy",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		if rec.Body.String() != wantBody {
			t.Errorf("%s body = %q, want %q", path, rec.Body.String(), wantBody)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}
	var body ReportBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("/health invalid JSON: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("/health status field = %q", body.Status)
	}
}
