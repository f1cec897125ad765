// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/feedwise/internal/overlay"
	"github.com/tomtom215/feedwise/internal/validation"
)

// Feed returns the current feed view. The feed is refreshed first when it is
// empty or when ?refresh=true is given.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if !refresh && h.feed.Len() > 0 {
		respondData(w, r, http.StatusOK, h.feed.View())
		return
	}
	h.RefreshFeed(w, r)
}

// RefreshFeed fetches page 1 and replaces the feed.
func (h *Handler) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	state, err := h.feed.Refresh(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, state)
}

// LoadMoreFeed appends the next page.
func (h *Handler) LoadMoreFeed(w http.ResponseWriter, r *http.Request) {
	state, err := h.feed.LoadMore(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, state)
}

// ReorderFeed moves one item of the displayed feed and persists the order.
func (h *Handler) ReorderFeed(w http.ResponseWriter, r *http.Request) {
	var req validation.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	state, err := h.feed.Reorder(r.Context(), *req.From, *req.To)
	if errors.Is(err, overlay.ErrIndexOutOfRange) {
		respondError(w, r, http.StatusBadRequest, CodeInvalidIndex, "Reorder index is outside the feed", nil)
		return
	}
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, state)
}
