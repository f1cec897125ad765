// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/validation"
)

// FavoriteToggle is the result of adding or toggling a favorite.
type FavoriteToggle struct {
	ID         string               `json:"id"`
	IsFavorite bool                 `json:"isFavorite"`
	Favorites  []models.ContentItem `json:"favorites"`
}

// FavoriteState reports whether one id is a favorite.
type FavoriteState struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

// Preferences returns the current preferences.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.Snapshot())
}

// ToggleCategory flips one news category.
func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := models.ParseNewsCategory(chi.URLParam(r, "category"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Unknown news category", nil)
		return
	}
	respondData(w, r, http.StatusOK, h.prefs.ToggleCategory(r.Context(), category))
}

// ToggleGenre flips one movie genre.
func (h *Handler) ToggleGenre(w http.ResponseWriter, r *http.Request) {
	genre, ok := models.ParseMovieGenre(chi.URLParam(r, "genre"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Unknown movie genre", nil)
		return
	}
	respondData(w, r, http.StatusOK, h.prefs.ToggleGenre(r.Context(), genre))
}

// SetCategories replaces the selected news categories.
func (h *Handler) SetCategories(w http.ResponseWriter, r *http.Request) {
	var req validation.CategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	cats := make([]models.NewsCategory, 0, len(req.Categories))
	for _, s := range req.Categories {
		if c, ok := models.ParseNewsCategory(s); ok {
			cats = append(cats, c)
		}
	}
	respondData(w, r, http.StatusOK, h.prefs.SetCategories(r.Context(), cats))
}

// SetGenres replaces the selected movie genres.
func (h *Handler) SetGenres(w http.ResponseWriter, r *http.Request) {
	var req validation.GenresRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	genres := make([]models.MovieGenre, len(req.Genres))
	for i, g := range req.Genres {
		genres[i] = models.MovieGenre(g)
	}
	respondData(w, r, http.StatusOK, h.prefs.SetGenres(r.Context(), genres))
}

// Favorites lists the favorites, oldest first.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.Snapshot().Favorites)
}

// ToggleFavorite adds the posted item to the favorites, or removes it when an
// item with the same id is already a favorite.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var item models.ContentItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if ve := validation.ValidateFavorite(item); ve != nil {
		respondAPIError(w, r, http.StatusBadRequest, toAPIError(ve))
		return
	}

	prefs := h.prefs.ToggleFavorite(r.Context(), item)
	respondData(w, r, http.StatusOK, FavoriteToggle{
		ID:         item.ID,
		IsFavorite: prefs.FavoriteIndex(item.ID) >= 0,
		Favorites:  prefs.Favorites,
	})
}

// AddFavorite adds the posted item to the favorites. Adding an id that is
// already a favorite keeps the stored snapshot.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var item models.ContentItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if ve := validation.ValidateFavorite(item); ve != nil {
		respondAPIError(w, r, http.StatusBadRequest, toAPIError(ve))
		return
	}

	prefs := h.prefs.AddFavorite(r.Context(), item)
	respondData(w, r, http.StatusOK, FavoriteToggle{
		ID:         item.ID,
		IsFavorite: true,
		Favorites:  prefs.Favorites,
	})
}

// FavoriteStatus reports whether an id is a favorite.
func (h *Handler) FavoriteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := favoriteID(w, r)
	if !ok {
		return
	}
	respondData(w, r, http.StatusOK, FavoriteState{ID: id, IsFavorite: h.prefs.IsFavorite(id)})
}

// RemoveFavorite removes a favorite by id. Removing an id that is not a
// favorite is not an error. Ids containing slashes must be escaped.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := favoriteID(w, r)
	if !ok {
		return
	}
	respondData(w, r, http.StatusOK, h.prefs.RemoveFavorite(r.Context(), id).Favorites)
}

func favoriteID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || strings.TrimSpace(id) == "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid favorite id", nil)
		return "", false
	}
	return id, true
}

// SetFeedOrder overwrites the manual feed order.
func (h *Handler) SetFeedOrder(w http.ResponseWriter, r *http.Request) {
	var req validation.FeedOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}
	respondData(w, r, http.StatusOK, h.prefs.SetFeedOrder(r.Context(), req.IDs))
}

// ResetFeedOrder clears the manual feed order.
func (h *Handler) ResetFeedOrder(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.ResetFeedOrder(r.Context()))
}

// ResetPreferences restores the first-run preferences.
func (h *Handler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.ResetAll(r.Context()))
}

// ClearPreferences deletes the stored preferences and favorites and returns
// the defaults.
func (h *Handler) ClearPreferences(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.Clear(r.Context()))
}
