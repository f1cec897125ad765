// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// mockService runs until canceled, optionally failing its first runs.
type mockService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func (m *mockService) Serve(ctx context.Context) error {
	if m.starts.Add(1) <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTreeConfigDefaults(t *testing.T) {
	t.Parallel()

	tree := NewTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	want := DefaultTreeConfig()
	want.FailureBackoff = time.Second
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
}

func TestTreeStartsBothLayers(t *testing.T) {
	t.Parallel()

	tree := NewTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	api := &mockService{name: "api"}
	janitor := &mockService{name: "janitor"}
	tree.AddAPIService(api)
	tree.AddBackgroundService(janitor)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "services to start", func() bool {
		return api.starts.Load() == 1 && janitor.starts.Load() == 1
	})
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v, err = %v", report, err)
	}
}

func TestTreeRestartsFailingService(t *testing.T) {
	t.Parallel()

	tree := NewTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &mockService{name: "flaky", failures: 2}
	steady := &mockService{name: "steady"}
	tree.AddBackgroundService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitFor(t, "flaky service to recover", func() bool { return flaky.starts.Load() >= 3 })
	if n := steady.starts.Load(); n != 1 {
		t.Errorf("api service restarted %d times by a background failure", n)
	}
}
