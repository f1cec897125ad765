// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package preferences persists the local user's personalization state.
//
// The state is one JSON blob stored under a well-known key in a small
// key/value Backend. Store owns the in-memory copy, serializes mutations and
// writes through to the backend before returning. Legacy blob shapes are
// upgraded on Load and re-persisted immediately.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/feedwise/internal/config"
)

// ErrNotFound is returned by a Backend when a key has no value.
var ErrNotFound = errors.New("preferences: key not found")

// Backend is the key/value storage the Store writes through to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by OpenBackend.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// OpenBackend opens the backend selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.PreferencesConfig) (Backend, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendBadger, "":
		return OpenBadger(cfg.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown preferences backend %q", cfg.Backend)
	}
}
