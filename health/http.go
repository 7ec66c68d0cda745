package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ReportBody is the JSON shape of the detailed health endpoint.
type ReportBody struct {
	Status    string               `json:"status"`
	CheckedAt string               `json:"checked_at"`
	Checks    map[string]CheckBody `json:"checks,omitempty"`
}

// CheckBody is the JSON shape of one check within a report.
type CheckBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Elapsed string         `json:"elapsed,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func checkBody(res Result) CheckBody {
	body := CheckBody{
		Status:  res.Status.String(),
		Message: res.Message,
		Elapsed: res.Elapsed.String(),
		Details: res.Details,
	}
	if res.Err != nil {
		body.Error = res.Err.Error()
	}
	return body
}

// httpStatus maps a health status to a response code. Degraded still
// answers 200 so load balancers keep routing while the gateway serves
// from cache or fallback.
func httpStatus(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// LivenessHandler answers liveness probes. It only proves the process
// is up; dependency state is the readiness handler's job.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler answers readiness probes with a plain-text verdict
// from a full check run.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		report := agg.Run(ctx)

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(httpStatus(report.Status))
		_, _ = w.Write([]byte(report.Status.String()))
	}
}

// ReportHandler serves the full report as JSON, one entry per checker.
func ReportHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		report := agg.Run(ctx)

		body := ReportBody{
			Status:    report.Status.String(),
			CheckedAt: report.CheckedAt.UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckBody, len(report.Results)),
		}
		for name, res := range report.Results {
			body.Checks[name] = checkBody(res)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus(report.Status))
		_ = json.NewEncoder(w).Encode(body)
	}
}

// CheckHandler serves a single named check as JSON. Unknown names
// answer 404.
func CheckHandler(agg *Aggregator, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := agg.Check(ctx, name)

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.WriteHeader(httpStatus(res.Status))
		_ = json.NewEncoder(w).Encode(checkBody(res))
	}
}

// RegisterHandlers mounts the standard endpoints on mux.
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(agg))
	mux.HandleFunc("/health", ReportHandler(agg))
}
