// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package testinfra starts throwaway service containers for integration tests.
//
// Containers are managed with testcontainers-go and are only compiled with the
// integration build tag:
//
//	go test -tags integration ./internal/preferences/...
//
// Tests call SkipIfNoDocker first so that a machine without Docker skips
// instead of failing:
//
//	func TestPostgresBackend(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//
//	    backend, err := preferences.OpenPostgres(ctx, pg.DSN)
//	    // ...
//	}
//
// The first run pulls images; later runs use the local cache.
package testinfra
