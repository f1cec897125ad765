// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package services

import (
	"context"
	"time"
)

// Janitor purges expired entries every interval until ctx is canceled.
// *cache.Cache satisfies it.
type Janitor interface {
	RunJanitor(ctx context.Context, interval time.Duration) error
}

// CacheJanitorService runs one cache's janitor under supervision.
type CacheJanitorService struct {
	name     string
	janitor  Janitor
	interval time.Duration
}

// NewCacheJanitorService creates a janitor service for the cache of one
// provider. A non-positive interval selects one minute.
func NewCacheJanitorService(provider string, janitor Janitor, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		name:     "cache-janitor:" + provider,
		janitor:  janitor,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	return s.janitor.RunJanitor(ctx, s.interval)
}

func (s *CacheJanitorService) String() string {
	return s.name
}
