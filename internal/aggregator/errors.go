// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
)

// reasons holds the message reported for an orchestration failure of each operation.
var reasons = map[string]string{
	OpPersonalized: "Failed to fetch personalized feed",
	OpTrending:     "Failed to fetch trending content",
	OpLoadMore:     "Failed to load more content",
	OpSearch:       "Failed to search content",
}

// AggregateError reports that an operation failed as a whole, as opposed to
// an individual source failing (which only shrinks the result).
type AggregateError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *AggregateError) Error() string {
	return e.Reason
}

func (e *AggregateError) Unwrap() error {
	return e.Cause
}

// Reason returns the human-readable reason for op.
func Reason(op string) string {
	if r, ok := reasons[op]; ok {
		return r
	}
	return "Failed to fetch content"
}

// guard converts a panic in the orchestration path into an *AggregateError.
// It must be deferred directly by the operation.
func guard(ctx context.Context, op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	metrics.AggregationFailures.WithLabelValues(op).Inc()
	logging.Ctx(ctx).Error().
		Str("operation", op).
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("Aggregation failed")
	*errp = &AggregateError{Op: op, Reason: Reason(op), Cause: fmt.Errorf("panic: %v", r)}
}
