// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/models"
)

func TestTrendingSession(t *testing.T) {
	t.Parallel()
	var round atomic.Int32
	news := &stubSource{trending: func(context.Context) []models.ContentItem {
		if round.Add(1) == 1 {
			return itemsWithPrefix("first", 1)
		}
		return itemsWithPrefix("second", 2)
	}}
	tr := NewTrending(New(news, &stubSource{}, &stubSource{}))
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	if _, loaded := tr.State(); loaded {
		t.Error("nothing fetched yet")
	}

	state, err := tr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	checkEqual(t, "items", ids(state.Items), "first-0")
	checkEqual(t, "fetchedAt", state.FetchedAt, fixed)

	_, _ = tr.Refresh(context.Background())
	state, loaded := tr.State()
	checkEqual(t, "loaded", loaded, true)
	checkEqual(t, "items", ids(state.Items), "second-0,second-1")
}

// searchRecorder counts searches per query.
type searchRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *searchRecorder) source() *stubSource {
	return &stubSource{search: func(_ context.Context, q string) []models.ContentItem {
		r.mu.Lock()
		r.queries = append(r.queries, q)
		r.mu.Unlock()
		return []models.ContentItem{item("hit-" + q)}
	}}
}

func (r *searchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSearchSessionDebouncesInput(t *testing.T) {
	t.Parallel()
	rec := &searchRecorder{}
	s := NewSearchSession(context.Background(), New(rec.source(), &stubSource{}, &stubSource{}), 30*time.Millisecond)
	defer s.Close()

	for _, q := range []string{"d", "du", "dun", "dune"} {
		s.Input(q)
	}
	checkEqual(t, "query", s.Results().Query, "dune")

	waitFor(t, func() bool { return rec.count() > 0 && !s.Results().Pending })
	time.Sleep(50 * time.Millisecond)

	checkEqual(t, "searches", rec.count(), 1)
	checkEqual(t, "results", ids(s.Results().Results), "hit-dune")
}

func TestSearchSessionBlankInputDispatchesNothing(t *testing.T) {
	t.Parallel()
	rec := &searchRecorder{}
	s := NewSearchSession(context.Background(), New(rec.source(), &stubSource{}, &stubSource{}), 20*time.Millisecond)
	defer s.Close()

	s.Input("dune")
	s.Input("   ")
	time.Sleep(60 * time.Millisecond)

	checkEqual(t, "searches", rec.count(), 0)
	checkEqual(t, "pending", s.Results().Pending, false)
}

func TestSearchSessionSubmitIsImmediate(t *testing.T) {
	t.Parallel()
	rec := &searchRecorder{}
	s := NewSearchSession(context.Background(), New(rec.source(), &stubSource{}, &stubSource{}), time.Hour)
	defer s.Close()

	s.Input("typed")
	state, err := s.Submit(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	checkEqual(t, "query", state.Query, "matrix")
	checkEqual(t, "results", ids(state.Results), "hit-matrix")
	checkEqual(t, "pending input dropped", state.Pending, false)
	checkEqual(t, "searches", rec.count(), 1)
}

func TestSearchSessionKeepsNewestResult(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	news := &stubSource{search: func(_ context.Context, q string) []models.ContentItem {
		if q == "slow" {
			<-gate
		}
		return []models.ContentItem{item("hit-" + q)}
	}}
	s := NewSearchSession(context.Background(), New(news, &stubSource{}, &stubSource{}), time.Hour)
	defer s.Close()

	done := make(chan struct{})
	go func() {
		_, _ = s.Submit(context.Background(), "slow")
		close(done)
	}()
	waitFor(t, func() bool { return news.calls.Load() > 0 })

	if _, err := s.Submit(context.Background(), "fast"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	close(gate)
	<-done

	checkEqual(t, "results", ids(s.Results().Results), "hit-fast")
}

func TestSearchSessionBlankInputClearsResults(t *testing.T) {
	t.Parallel()
	rec := &searchRecorder{}
	s := NewSearchSession(context.Background(), New(rec.source(), &stubSource{}, &stubSource{}), time.Hour)
	defer s.Close()

	if _, err := s.Submit(context.Background(), "golang"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	s.Input("")

	state := s.Results()
	checkEqual(t, "query", state.Query, "")
	checkEqual(t, "results", ids(state.Results), "")
	checkEqual(t, "error", state.Error, "")
}

func TestSearchSessionBlankInputSupersedesInFlight(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	news := &stubSource{search: func(_ context.Context, q string) []models.ContentItem {
		<-gate
		return []models.ContentItem{item("hit-" + q)}
	}}
	s := NewSearchSession(context.Background(), New(news, &stubSource{}, &stubSource{}), time.Hour)
	defer s.Close()

	done := make(chan struct{})
	go func() {
		_, _ = s.Submit(context.Background(), "old")
		close(done)
	}()
	waitFor(t, func() bool { return news.calls.Load() > 0 })

	s.Input("  ")
	close(gate)
	<-done

	checkEqual(t, "results", ids(s.Results().Results), "")
}

func TestSearchSessionDebouncedSearchHasCorrelationID(t *testing.T) {
	t.Parallel()
	seen := make(chan string, 1)
	news := &stubSource{search: func(ctx context.Context, q string) []models.ContentItem {
		seen <- logging.CorrelationIDFromContext(ctx)
		return nil
	}}
	s := NewSearchSession(context.Background(), New(news, &stubSource{}, &stubSource{}), 5*time.Millisecond)
	defer s.Close()

	s.Input("dune")
	select {
	case id := <-seen:
		if id == "" {
			t.Error("debounced search ran without a correlation id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never ran")
	}
}
