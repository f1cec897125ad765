// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/feedwise/internal/metrics"
)

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/metrics-test/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/metrics-test/items/1", "/metrics-test/items/2", "/metrics-test/items/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	pattern := "/metrics-test/items/{id}"
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", pattern, "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", pattern, "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/metrics-test/items/1", "200")); got != 0 {
		t.Errorf("raw path should never be a label, got %v", got)
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	if got := RoutePattern(req); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	t.Parallel()

	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want %d", rec.statusCode, http.StatusTeapot)
	}
}
