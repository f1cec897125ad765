// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/feedwise/internal/validation"
)

// Trending returns trending content, fetching it on first use or when
// ?refresh=true is given.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if state, loaded := h.trending.State(); loaded && !refresh {
		respondData(w, r, http.StatusOK, state)
		return
	}

	state, err := h.trending.Refresh(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, state)
}

// Search runs ?q= immediately. A blank query returns no results without
// contacting any provider.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req := validation.SearchQuery{Q: r.URL.Query().Get("q")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	state, err := h.search.Submit(r.Context(), req.Q)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, state)
}

// SearchInput records typed input. The search runs after the debounce delay
// and its results are read from SearchResults.
func (h *Handler) SearchInput(w http.ResponseWriter, r *http.Request) {
	var req validation.SearchInputRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	h.search.Input(req.Query)
	respondData(w, r, http.StatusAccepted, h.search.Results())
}

// SearchResults returns the latest query and results.
func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.search.Results())
}
