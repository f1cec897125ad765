// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"429", &StatusError{Provider: "gnews", StatusCode: http.StatusTooManyRequests}, ReasonRateLimited},
		{"401", &StatusError{Provider: "tmdb", StatusCode: http.StatusUnauthorized}, ReasonForbidden},
		{"403 wrapped", fmt.Errorf("fetch: %w", &StatusError{StatusCode: http.StatusForbidden}), ReasonForbidden},
		{"500", &StatusError{StatusCode: http.StatusInternalServerError}, ReasonUnknown},
		{"breaker open", gobreaker.ErrOpenState, ReasonCircuitOpen},
		{"half-open saturated", gobreaker.ErrTooManyRequests, ReasonCircuitOpen},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), ReasonCanceled},
		{"deadline", context.DeadlineExceeded, ReasonCanceled},
		{"other", errors.New("connection reset"), ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checkStringEqual(t, "reason", Classify(tt.err), tt.want)
		})
	}
}

func TestStatusErrorIs(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("wrapped: %w", &StatusError{Provider: "gnews", StatusCode: 502, Body: "bad gateway"})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Error("StatusError should match ErrUnexpectedStatus")
	}
	if !strings.Contains(err.Error(), "gnews returned status 502: bad gateway") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestReadBodyForErrorTruncates(t *testing.T) {
	t.Parallel()
	body := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+10)))
	if !strings.HasSuffix(string(body), "(truncated)") {
		t.Error("expected truncation marker")
	}
	checkStringEqual(t, "short body", string(readBodyForError(strings.NewReader("oops"))), "oops")
}

func TestCleanTags(t *testing.T) {
	t.Parallel()
	checkIDsEqual(t, cleanTags([]string{" technology", "", "sports", "technology ", "  "}), "technology", "sports")
}

func checkIDsEqual(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBreakerOpensAndRejects(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewGNewsClient(GNewsConfig{
		BaseURL: server.URL,
		Timeout: time.Second,
		Breaker: BreakerSettings{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  2,
			FailureRatio: 0.5,
		},
	})

	for i := 0; i < 5; i++ {
		checkEmptyItems(t, "trending", client.FetchTrending(context.Background()))
	}

	checkIntEqual(t, "upstream hits", int(hits.Load()), 2)
	if state := client.t.breaker.State(); state != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", state)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	t.Parallel()

	b := newBreaker("test-cancel", BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 1, FailureRatio: 0.1})
	for i := 0; i < 3; i++ {
		_, err := b.execute(func() (any, error) { return nil, context.Canceled })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("execute() = %v, want context.Canceled", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("cancellations should not trip the breaker, state = %v", b.State())
	}
}

func TestStateHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		checkStringEqual(t, "state string", stateToString(tt.state), tt.str)
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}

func TestLimiterDefaults(t *testing.T) {
	t.Parallel()
	if l := newLimiter(0); !l.Allow() || !l.Allow() {
		t.Error("zero rate should not throttle")
	}
	if l := newLimiter(0.5); l.Burst() != 1 {
		t.Errorf("fractional rate burst = %d, want 1", l.Burst())
	}
}
