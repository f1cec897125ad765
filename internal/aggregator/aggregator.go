// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package aggregator fans requests out to the content sources and merges
// what comes back.
//
// Every source call is an independent task: a slow, failing or panicking
// source contributes nothing and never cancels its siblings. Results are
// concatenated in task order. Only the personalized feed is shuffled.
//
// The sessions in this package (Feed, Trending, SearchSession) hold the
// latest result of each operation for the API layer and discard completions
// that a newer request has superseded.
package aggregator

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/feedwise/internal/fanout"
	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/sources"
)

// Operation names, used in errors, logs and metrics.
const (
	OpPersonalized = "personalized"
	OpTrending     = "trending"
	OpLoadMore     = "load_more"
	OpSearch       = "search"
)

// Defaults.
const (
	DefaultSocialLimit    = sources.DefaultSocialRecentLimit
	DefaultMaxConcurrency = 16
)

// SocialSource is the social adapter, which also serves the fixed-size
// recent slice of the personalized feed.
type SocialSource interface {
	sources.Adapter
	sources.RecentSource
}

// Aggregator merges results from the news, movie and social sources.
type Aggregator struct {
	news   sources.Adapter
	movies sources.Adapter
	social SocialSource

	socialLimit    int
	maxConcurrency int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSocialLimit sets how many recent social posts the personalized feed carries.
func WithSocialLimit(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.socialLimit = n
		}
	}
}

// WithMaxConcurrency bounds the number of source calls in flight per operation.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrency = n
		}
	}
}

// WithRand sets the random source used to shuffle the personalized feed.
func WithRand(r *rand.Rand) Option {
	return func(a *Aggregator) {
		if r != nil {
			a.rng = r
		}
	}
}

// New creates an Aggregator over the three sources.
func New(news, movies sources.Adapter, social SocialSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		news:           news,
		movies:         movies,
		social:         social,
		socialLimit:    DefaultSocialLimit,
		maxConcurrency: DefaultMaxConcurrency,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type task = fanout.Task[[]models.ContentItem]

// FetchPersonalized returns one page of content for prefs: one task per
// selected category, one per selected genre and one for recent social posts
// (skipped when the social limit is zero). The merged result is shuffled.
func (a *Aggregator) FetchPersonalized(ctx context.Context, prefs models.UserPreferences, page int) (items []models.ContentItem, err error) {
	defer guard(ctx, OpPersonalized, &err)

	tasks := a.tagTasks(prefs, page)
	if limit := a.socialLimit; limit > 0 {
		social := a.social
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return social.FetchRecent(ctx, limit), nil
		})
	}

	items = a.settle(ctx, OpPersonalized, tasks)
	a.shuffle(items)
	return items, nil
}

// LoadMore returns page nextPage for prefs without social posts. Items are
// returned in task order and are not deduplicated against earlier pages.
func (a *Aggregator) LoadMore(ctx context.Context, prefs models.UserPreferences, nextPage int) (items []models.ContentItem, err error) {
	defer guard(ctx, OpLoadMore, &err)
	return a.settle(ctx, OpLoadMore, a.tagTasks(prefs, nextPage)), nil
}

// FetchTrending returns news, movie and social trending content, in that order.
func (a *Aggregator) FetchTrending(ctx context.Context) (items []models.ContentItem, err error) {
	defer guard(ctx, OpTrending, &err)

	tasks := make([]task, 0, 3)
	for _, src := range a.adapters() {
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return src.FetchTrending(ctx), nil
		})
	}
	return a.settle(ctx, OpTrending, tasks), nil
}

// Search queries every source. A blank query returns an empty result without
// calling any source.
func (a *Aggregator) Search(ctx context.Context, query string) (items []models.ContentItem, err error) {
	defer guard(ctx, OpSearch, &err)

	if strings.TrimSpace(query) == "" {
		return []models.ContentItem{}, nil
	}
	tasks := make([]task, 0, 3)
	for _, src := range a.adapters() {
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return src.Search(ctx, query), nil
		})
	}
	return a.settle(ctx, OpSearch, tasks), nil
}

func (a *Aggregator) adapters() []sources.Adapter {
	return []sources.Adapter{a.news, a.movies, a.social}
}

// tagTasks builds one task per selected category and per selected genre.
func (a *Aggregator) tagTasks(prefs models.UserPreferences, page int) []task {
	if page < 1 {
		page = 1
	}
	tasks := make([]task, 0, len(prefs.NewsCategories)+len(prefs.MovieGenres)+1)
	for _, tag := range prefs.CategoryStrings() {
		news := a.news
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return news.FetchByTags(ctx, []string{tag}, page), nil
		})
	}
	for _, tag := range prefs.GenreStrings() {
		movies := a.movies
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return movies.FetchByTags(ctx, []string{tag}, page), nil
		})
	}
	return tasks
}

// settle runs tasks to completion and concatenates their results in task order.
func (a *Aggregator) settle(ctx context.Context, op string, tasks []task) []models.ContentItem {
	start := time.Now()
	results := fanout.Settle(ctx, a.maxConcurrency, tasks...)

	for i, r := range results {
		if r.Err == nil {
			continue
		}
		logging.Ctx(ctx).Error().Err(r.Err).
			Str("operation", op).
			Int("task", i).
			Msg("Aggregation task failed")
	}

	items := fanout.Flatten(results)
	metrics.RecordAggregation(op, time.Since(start), len(items), fanout.Failures(results))
	return items
}

// shuffle permutes items uniformly (Fisher-Yates).
func (a *Aggregator) shuffle(items []models.ContentItem) {
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	a.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
