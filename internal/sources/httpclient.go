// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// transport is the shared HTTP plumbing of the JSON provider clients:
// throttle, then breaker, then a single GET. There is no retry.
type transport struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *breaker
	headers map[string]string
}

// newLimiter returns a token bucket allowing perSecond sustained requests.
// A non-positive rate disables throttling.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func newTransport(name string, timeout time.Duration, perSecond float64, bs BreakerSettings, client *http.Client) *transport {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &transport{
		name:    name,
		client:  client,
		limiter: newLimiter(perSecond),
		breaker: newBreaker(name, bs),
		headers: map[string]string{"Accept": "application/json"},
	}
}

// getJSON fetches reqURL and decodes the JSON body into a new T.
func getJSON[T any](ctx context.Context, t *transport, reqURL string) (*T, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limiter: %w", t.name, err)
	}

	result, err := t.breaker.execute(func() (any, error) {
		return doGet[T](ctx, t, reqURL)
	})
	if err != nil {
		return nil, err
	}

	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func doGet[T any](ctx context.Context, t *transport, reqURL string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", t.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Provider:   t.name,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", t.name, err)
	}
	return &out, nil
}
