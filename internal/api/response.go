// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package api exposes the Feedwise engine over HTTP using the chi router.
//
// Every response uses the same envelope:
//
//	{"success": true, "data": {...}, "error": null, "meta": {"timestamp": "...", "requestId": "..."}}
//
// Aggregate failures surface as 500 with a single human-readable reason
// ("Failed to fetch personalized feed"); per-source failures never reach the
// client because adapters absorb them.
package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwise/internal/aggregator"
	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/middleware"
	"github.com/tomtom215/feedwise/internal/validation"
)

// maxBodyBytes bounds request bodies. The largest legitimate body is a feed
// order of 1000 ids.
const maxBodyBytes = 1 << 20

// Response is the standard API envelope.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
	Meta    Meta      `json:"meta"`
}

// APIError is the error member of the envelope.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func newMeta(r *http.Request) Meta {
	return Meta{
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r.Context()),
	}
}

// respondData writes a success envelope around data.
func respondData(w http.ResponseWriter, r *http.Request, status int, data any) {
	respondJSON(w, r, status, &Response{
		Success: true,
		Data:    data,
		Meta:    newMeta(r),
	})
}

// respondError writes an error envelope. err, when non-nil, is logged and
// never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Int("status", status).
			Msg("API error")
	}
	respondAPIError(w, r, status, &APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError) {
	respondJSON(w, r, status, &Response{
		Success: false,
		Error:   apiErr,
		Meta:    newMeta(r),
	})
}

// respondFailure maps an engine error to its status and envelope.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var aggErr *aggregator.AggregateError
	if errors.As(err, &aggErr) {
		respondError(w, r, http.StatusInternalServerError, CodeAggregationFailed, aggErr.Reason, err)
		return
	}
	respondError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
}

// respondJSON sends a JSON response. Successful GET responses carry an ETag
// over the payload (excluding meta) and honor If-None-Match.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	if status == http.StatusOK && r.Method == http.MethodGet {
		if payload, err := json.Marshal(response.Data); err == nil {
			etag := generateETag(payload)
			w.Header().Set("ETag", etag)
			if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a weak validator over data.
func generateETag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return `W/"` + strconv.FormatUint(h.Sum64(), 16) + `"`
}

// decodeJSON reads a bounded JSON body into v. It writes the error response
// itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, r, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "Request body too large", nil)
	case errors.Is(err, io.EOF):
		respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "Request body is required", nil)
	default:
		respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON request body", nil)
	}
	return false
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v any) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return toAPIError(validationErr)
}

func toAPIError(ve *validation.RequestValidationError) *APIError {
	apiErr := ve.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
