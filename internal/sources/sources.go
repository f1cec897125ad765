// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package sources contains the upstream content adapters (news, movies and
// social) and the resilience layers wrapped around them.
//
// Adapters never return errors. Every network or provider failure is
// classified, logged, counted and converted to an empty, non-nil result so a
// single unhealthy provider cannot take down an aggregated feed.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/feedwise/internal/fanout"
	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
)

// Adapter is the capability every content source provides.
type Adapter interface {
	// Name identifies the provider in logs, metrics and cache keys.
	Name() string

	// FetchByTags returns items for each tag (news category, movie genre id
	// or hashtag). An empty tag set yields an empty result without I/O.
	FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem

	// FetchTrending returns the provider's current trending items.
	FetchTrending(ctx context.Context) []models.ContentItem

	// Search returns items matching query. A blank query yields an empty
	// result without I/O.
	Search(ctx context.Context, query string) []models.ContentItem
}

// RecentSource is implemented by sources that can return their newest items.
type RecentSource interface {
	FetchRecent(ctx context.Context, limit int) []models.ContentItem
}

// Operation names used for metrics and logs.
const (
	OpFetchByTags = "fetch_by_tags"
	OpTrending    = "trending"
	OpSearch      = "search"
	OpRecent      = "recent"
	OpPopular     = "popular"
	OpNowPlaying  = "now_playing"
)

// Failure reasons.
const (
	ReasonRateLimited = "rate_limited"
	ReasonForbidden   = "forbidden"
	ReasonCircuitOpen = "circuit_open"
	ReasonCanceled    = "canceled"
	ReasonUnknown     = "unknown"
)

// ErrUnexpectedStatus is matched by every *StatusError.
var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// StatusError reports a non-200 upstream response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) true for any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Classify maps an adapter error to one of the failure reasons.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusTooManyRequests:
			return ReasonRateLimited
		case http.StatusUnauthorized, http.StatusForbidden:
			return ReasonForbidden
		}
		return ReasonUnknown
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ReasonCircuitOpen
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	}
	return ReasonUnknown
}

// maxErrorBodySize limits how much of an error response body is kept.
const maxErrorBodySize = 64 * 1024

// readBodyForError reads at most maxErrorBodySize bytes of r for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// observe records one adapter operation and converts a failure to an empty,
// non-nil slice. Every public adapter method funnels through it.
func observe(ctx context.Context, provider, op string, start time.Time, items []models.ContentItem, err error) []models.ContentItem {
	reason := Classify(err)
	if err != nil {
		items = nil
		event := logging.Ctx(ctx).Warn()
		if reason == ReasonCanceled {
			event = logging.Ctx(ctx).Debug()
		}
		event.Err(err).
			Str("provider", provider).
			Str("operation", op).
			Str("reason", reason).
			Msg("Source request failed")
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	metrics.RecordSourceRequest(provider, op, time.Since(start), len(items), reason)
	return items
}

// fetchEach runs fetch once per tag concurrently and concatenates the
// successful results in tag order. Failed tags are logged and skipped.
func fetchEach(ctx context.Context, provider string, tags []string, fetch func(ctx context.Context, tag string) ([]models.ContentItem, error)) []models.ContentItem {
	tasks := make([]fanout.Task[[]models.ContentItem], 0, len(tags))
	for _, tag := range tags {
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return fetch(ctx, tag)
		})
	}

	results := fanout.Settle(ctx, 0, tasks...)
	for i, r := range results {
		if r.Err != nil {
			logging.Ctx(ctx).Warn().Err(r.Err).
				Str("provider", provider).
				Str("tag", tags[i]).
				Str("reason", Classify(r.Err)).
				Msg("Tag fetch failed")
			metrics.SourceErrors.WithLabelValues(provider, OpFetchByTags, Classify(r.Err)).Inc()
		}
	}
	return fanout.Flatten(results)
}

// cleanTags trims tags and drops blanks and duplicates.
func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func capItems[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
