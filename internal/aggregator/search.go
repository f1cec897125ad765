// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/feedwise/internal/debounce"
	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
)

// DefaultSearchDebounce is the quiet period before typed input is searched.
const DefaultSearchDebounce = 500 * time.Millisecond

// SearchState is the latest query and the results of the latest search.
type SearchState struct {
	Query   string               `json:"query"`
	Results []models.ContentItem `json:"results"`
	Pending bool                 `json:"pending"`
	Error   string               `json:"error,omitempty"`
}

// SearchSession debounces typed input into searches and keeps the newest result.
//
// Searches are never canceled once dispatched. Each one takes a generation
// number, and a completion is only stored if no newer search was dispatched.
type SearchSession struct {
	agg      *Aggregator
	baseCtx  context.Context
	debounce *debounce.Debouncer[string]

	mu       sync.Mutex
	query    string
	results  []models.ContentItem
	errMsg   string
	gen      uint64
	inFlight int
}

// NewSearchSession creates a session. Debounced searches run with ctx, which
// should live as long as the session.
func NewSearchSession(ctx context.Context, agg *Aggregator, delay time.Duration) *SearchSession {
	if delay < 0 {
		delay = 0
	}
	s := &SearchSession{
		agg:     agg,
		baseCtx: ctx,
		results: []models.ContentItem{},
	}
	s.debounce = debounce.New(delay, func(query string) {
		s.run(logging.ContextWithNewCorrelationID(s.baseCtx), query)
	})
	return s
}

// Input records query as the current text. A non-blank query is searched
// after the debounce delay unless more input arrives first. A blank query
// drops any pending search, clears the results and supersedes searches
// already in flight.
func (s *SearchSession) Input(query string) {
	if strings.TrimSpace(query) == "" {
		s.debounce.Cancel()
		s.mu.Lock()
		s.query = query
		s.gen++
		s.results = []models.ContentItem{}
		s.errMsg = ""
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.debounce.Trigger(query)
}

// Submit searches query immediately, superseding pending input.
func (s *SearchSession) Submit(ctx context.Context, query string) (SearchState, error) {
	s.debounce.Cancel()
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	return s.run(ctx, query)
}

// Results returns the latest query and results.
func (s *SearchSession) Results() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close stops the debouncer. Pending input is dropped.
func (s *SearchSession) Close() {
	s.debounce.Stop()
}

func (s *SearchSession) run(ctx context.Context, query string) (SearchState, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.inFlight++
	s.mu.Unlock()

	results, err := s.agg.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if gen != s.gen {
		metrics.StaleCompletions.WithLabelValues("search").Inc()
		logging.Ctx(ctx).Debug().
			Str("query", query).
			Uint64("generation", gen).
			Msg("Discarding superseded search completion")
		return s.stateLocked(), nil
	}
	if err != nil {
		s.errMsg = err.Error()
		return s.stateLocked(), err
	}
	s.results = results
	s.errMsg = ""
	return s.stateLocked(), nil
}

func (s *SearchSession) stateLocked() SearchState {
	return SearchState{
		Query:   s.query,
		Results: models.CloneItems(s.results),
		Pending: s.inFlight > 0 || s.debounce.Pending(),
		Error:   s.errMsg,
	}
}
