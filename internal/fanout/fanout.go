// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package fanout runs independent tasks concurrently and waits for every one
// of them to settle.
//
// A failing task never cancels its siblings: each task writes into its own
// result slot and the caller inspects every slot after the barrier. A
// panicking task is recovered and reported as a failed slot.
package fanout

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Task produces a value or an error. It receives the context passed to Settle.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the settled outcome of one task.
type Result[T any] struct {
	Value T
	Err   error
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Settle runs every task concurrently, at most limit at a time (limit <= 0
// means unbounded), and returns one Result per task in task order.
//
// Settle returns only after all tasks have finished. Tasks that have not yet
// started when ctx is canceled still run; they are expected to observe ctx
// themselves.
func Settle[T any](ctx context.Context, limit int, tasks ...Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	// Every goroutine returns nil so the group never short-circuits; the
	// per-slot error is the only failure channel.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = run(ctx, task)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func run[T any](ctx context.Context, fn Task[T]) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()
	if fn == nil {
		return Result[T]{Err: fmt.Errorf("nil task")}
	}
	v, err := fn(ctx)
	return Result[T]{Value: v, Err: err}
}

// Flatten concatenates the values of all successful slots in task order.
// Failed slots contribute nothing. The result is never nil.
func Flatten[T any](results []Result[[]T]) []T {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n += len(r.Value)
		}
	}
	out := make([]T, 0, n)
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Value...)
		}
	}
	return out
}

// Failures counts slots that settled with an error.
func Failures[T any](results []Result[T]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
