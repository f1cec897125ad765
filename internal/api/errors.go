// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

// Error codes of the response envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidJSON       = "INVALID_JSON"
	CodeBodyTooLarge      = "BODY_TOO_LARGE"
	CodeInvalidIndex      = "INVALID_INDEX"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeAggregationFailed = "AGGREGATION_FAILED"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)
