package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/filters/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/api/filters/nope", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/filters/{name}", "404"))
	if val < 1 {
		t.Errorf("expected requests_total for route pattern >= 1, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/compose", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/compose", http.NoBody))

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/compose", "200")); val < 1 {
		t.Errorf("expected implicit 200 to be recorded, got %f", val)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/prompts/{category}", "/api/prompts/{category}"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestObserveEnhancement(t *testing.T) {
	beforeOK := testutil.ToFloat64(EnhancementsTotal.WithLabelValues("success"))
	beforeFail := testutil.ToFloat64(EnhancementsTotal.WithLabelValues("failure"))
	beforeImages := testutil.ToFloat64(ImagesTotal)

	ObserveEnhancement(true, 2, time.Second)
	ObserveEnhancement(false, 0, time.Second)

	if got := testutil.ToFloat64(EnhancementsTotal.WithLabelValues("success")) - beforeOK; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EnhancementsTotal.WithLabelValues("failure")) - beforeFail; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ImagesTotal) - beforeImages; got != 2 {
		t.Errorf("images delta = %v, want 2", got)
	}
}

func TestObserveSkippedFilter(t *testing.T) {
	before := testutil.ToFloat64(FiltersSkippedTotal.WithLabelValues("missing_parameter"))
	ObserveSkippedFilter("missing_parameter")
	if got := testutil.ToFloat64(FiltersSkippedTotal.WithLabelValues("missing_parameter")) - before; got != 1 {
		t.Errorf("skipped delta = %v, want 1", got)
	}
}
