// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/feedwise/internal/logging"
)

func serveRequestID(t *testing.T, incoming string) (header, fromCtx, fromLogging, correlation string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
		fromLogging = logging.RequestIDFromContext(r.Context())
		correlation = logging.CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header().Get(RequestIDHeader), fromCtx, fromLogging, correlation
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	t.Parallel()

	header, fromCtx, fromLogging, correlation := serveRequestID(t, "")
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("response id %q is not a UUID: %v", header, err)
	}
	if fromCtx != header || fromLogging != header {
		t.Errorf("context ids (%q, %q) do not match header %q", fromCtx, fromLogging, header)
	}
	if correlation == "" {
		t.Error("expected a correlation id in the logging context")
	}
}

func TestRequestIDReusesIncomingID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"well formed", "edge-proxy-4711", true},
		{"padded", "  edge-proxy-4712 ", true},
		{"embedded newline", "abc\ndef", false},
		{"embedded space", "abc def", false},
		{"too long", strings.Repeat("x", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header, fromCtx, _, _ := serveRequestID(t, tt.incoming)
			if reused := header == strings.TrimSpace(tt.incoming); reused != tt.reused {
				t.Errorf("header %q, reused = %v, want %v", header, reused, tt.reused)
			}
			if fromCtx != header {
				t.Errorf("context id %q != header %q", fromCtx, header)
			}
		})
	}
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, _, _, _ := serveRequestID(t, "")
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	t.Parallel()
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}
