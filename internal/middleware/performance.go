// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/feedwise/internal/logging"
)

// Defaults for NewPerformanceMonitor.
const (
	DefaultPerformanceWindow = 1000
	DefaultSlowThreshold     = time.Second
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string        `json:"route"`
	Method     string        `json:"method"`
	Duration   time.Duration `json:"duration"`
	StatusCode int           `json:"statusCode"`
	At         time.Time     `json:"at"`
}

// EndpointStats summarizes the samples of one method and route.
type EndpointStats struct {
	Endpoint string  `json:"endpoint"`
	Count    int     `json:"count"`
	Errors   int     `json:"errors"`
	AvgMS    float64 `json:"avgMs"`
	P50MS    int64   `json:"p50Ms"`
	P95MS    int64   `json:"p95Ms"`
	P99MS    int64   `json:"p99Ms"`
	MaxMS    int64   `json:"maxMs"`
}

// PerformanceMonitor keeps a sliding window of request samples and logs
// requests slower than a threshold. Upstream provider latency dominates
// aggregation endpoints, so the window is what /api/v1/health/performance
// reports when a feed feels slow.
type PerformanceMonitor struct {
	mu        sync.RWMutex
	samples   []RequestSample // ring buffer
	next      int
	full      bool
	threshold time.Duration
	now       func() time.Time
}

// NewPerformanceMonitor creates a monitor keeping the last window samples.
// Non-positive arguments select the defaults.
func NewPerformanceMonitor(window int, slowThreshold time.Duration) *PerformanceMonitor {
	if window <= 0 {
		window = DefaultPerformanceWindow
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return &PerformanceMonitor{
		samples:   make([]RequestSample, window),
		threshold: slowThreshold,
		now:       time.Now,
	}
}

// Record adds a sample, evicting the oldest once the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
}

// Stats aggregates the window per endpoint, busiest first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	window := pm.windowLocked()
	pm.mu.RUnlock()

	grouped := make(map[string][]RequestSample)
	for _, s := range window {
		key := s.Method + " " + s.Route
		grouped[key] = append(grouped[key], s)
	}

	stats := make([]EndpointStats, 0, len(grouped))
	for endpoint, samples := range grouped {
		durations := make([]int64, len(samples))
		var sum int64
		errs := 0
		for i, s := range samples {
			durations[i] = s.Duration.Milliseconds()
			sum += durations[i]
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		stats = append(stats, EndpointStats{
			Endpoint: endpoint,
			Count:    len(samples),
			Errors:   errs,
			AvgMS:    float64(sum) / float64(len(samples)),
			P50MS:    percentile(durations, 0.50),
			P95MS:    percentile(durations, 0.95),
			P99MS:    percentile(durations, 0.99),
			MaxMS:    durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Recent returns up to n of the newest samples, oldest first.
func (pm *PerformanceMonitor) Recent(n int) []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	window := pm.windowLocked()
	if n > len(window) {
		n = len(window)
	}
	if n <= 0 {
		return []RequestSample{}
	}
	return window[len(window)-n:]
}

// windowLocked returns a copy of the samples in arrival order.
func (pm *PerformanceMonitor) windowLocked() []RequestSample {
	if !pm.full {
		return append([]RequestSample(nil), pm.samples[:pm.next]...)
	}
	out := make([]RequestSample, 0, len(pm.samples))
	out = append(out, pm.samples[pm.next:]...)
	return append(out, pm.samples[:pm.next]...)
}

// Middleware records every request and warns about slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := pm.now()
		wrapper := newStatusRecorder(w)

		next.ServeHTTP(wrapper, r)

		duration := pm.now().Sub(start)
		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			Duration:   duration,
			StatusCode: wrapper.statusCode,
			At:         start,
		})

		if duration > pm.threshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", duration.Milliseconds()).
				Int64("threshold_ms", pm.threshold.Milliseconds()).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
