// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package preferences

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/overlay"
)

// Migration kinds, used as the metrics label.
const (
	MigrationV1      = "v1"
	MigrationV2      = "v2"
	MigrationRepair  = "repair"
	MigrationCorrupt = "corrupt"
)

// storedBlob is the persisted shape of every schema version. Fields are kept
// raw so that presence can be detected and each one decoded on its own.
type storedBlob struct {
	Version        *int            `json:"version"`
	NewsCategories json.RawMessage `json:"newsCategories"`
	MovieGenres    json.RawMessage `json:"movieGenres"`
	Favorites      json.RawMessage `json:"favorites"`
	FeedOrder      json.RawMessage `json:"feedOrder"`

	// Legacy fields.
	Categories  json.RawMessage `json:"categories"`
	FavoriteIDs json.RawMessage `json:"favoriteIds"`
}

// decodeResult describes what decodePreferences had to do to produce a value.
type decodeResult struct {
	// Migration is the legacy shape that was upgraded, or "".
	Migration string
	// Repaired lists the fields that were partially or wholly replaced.
	Repaired []string
	// Newer is set when the blob was written by a later schema version.
	Newer bool
}

// needsPersist reports whether the decoded value differs from what is stored.
func (r decodeResult) needsPersist() bool {
	return r.Migration != "" || len(r.Repaired) > 0
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodePreferences parses a stored blob, upgrading legacy shapes and falling
// back per field. A top-level parse failure is returned as an error and the
// caller uses defaults.
func decodePreferences(data []byte) (models.UserPreferences, decodeResult, error) {
	var res decodeResult
	var blob storedBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return models.DefaultPreferences(), res, fmt.Errorf("decode preferences: %w", err)
	}

	res.Newer = blob.Version != nil && *blob.Version > models.SchemaVersion
	prefs := models.DefaultPreferences()

	switch {
	case present(blob.FavoriteIDs) && !present(blob.Favorites):
		// v2: ids cannot be upgraded to snapshots, so favorites start empty.
		res.Migration = MigrationV2
		if present(blob.NewsCategories) {
			prefs.NewsCategories = decodeCategories(blob.NewsCategories, &res)
		}
		if present(blob.MovieGenres) {
			prefs.MovieGenres = decodeGenres(blob.MovieGenres, &res)
		}
		if present(blob.FeedOrder) {
			prefs.FeedOrder = decodeFeedOrder(blob.FeedOrder, &res)
		}
		return prefs, res, nil

	case present(blob.Categories) && !present(blob.NewsCategories) && !present(blob.MovieGenres):
		// v1: the old category list does not map onto the split vocabularies.
		res.Migration = MigrationV1
		if present(blob.Favorites) {
			prefs.Favorites = decodeFavorites(blob.Favorites, &res)
		}
		if present(blob.FeedOrder) {
			prefs.FeedOrder = decodeFeedOrder(blob.FeedOrder, &res)
		}
		return prefs, res, nil
	}

	if present(blob.NewsCategories) {
		prefs.NewsCategories = decodeCategories(blob.NewsCategories, &res)
	}
	if present(blob.MovieGenres) {
		prefs.MovieGenres = decodeGenres(blob.MovieGenres, &res)
	}
	if present(blob.Favorites) {
		prefs.Favorites = decodeFavorites(blob.Favorites, &res)
	}
	if present(blob.FeedOrder) {
		prefs.FeedOrder = decodeFeedOrder(blob.FeedOrder, &res)
	}
	return prefs, res, nil
}

func (r *decodeResult) repair(field string) {
	for _, f := range r.Repaired {
		if f == field {
			return
		}
	}
	r.Repaired = append(r.Repaired, field)
}

// decodeCategories keeps known categories in stored order without duplicates.
func decodeCategories(raw json.RawMessage, res *decodeResult) []models.NewsCategory {
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		res.repair("newsCategories")
		return models.DefaultNewsCategories()
	}
	out := make([]models.NewsCategory, 0, len(values))
	for _, v := range values {
		c := models.NewsCategory(v)
		if !c.Valid() || containsValue(out, c) {
			res.repair("newsCategories")
			continue
		}
		out = append(out, c)
	}
	return out
}

// decodeGenres keeps known genres in stored order without duplicates.
func decodeGenres(raw json.RawMessage, res *decodeResult) []models.MovieGenre {
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		res.repair("movieGenres")
		return models.DefaultMovieGenres()
	}
	out := make([]models.MovieGenre, 0, len(values))
	for _, v := range values {
		g := models.MovieGenre(v)
		if !g.Valid() || containsValue(out, g) {
			res.repair("movieGenres")
			continue
		}
		out = append(out, g)
	}
	return out
}

// decodeFavorites decodes each favorite on its own, dropping entries that do
// not decode, have no id, or repeat an earlier id.
func decodeFavorites(raw json.RawMessage, res *decodeResult) []models.ContentItem {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		res.repair("favorites")
		return []models.ContentItem{}
	}
	out := make([]models.ContentItem, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		var item models.ContentItem
		if err := json.Unmarshal(entry, &item); err != nil || item.ID == "" {
			res.repair("favorites")
			continue
		}
		if _, dup := seen[item.ID]; dup {
			res.repair("favorites")
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func decodeFeedOrder(raw json.RawMessage, res *decodeResult) []string {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		res.repair("feedOrder")
		return nil
	}
	order := overlay.Normalize(ids)
	if len(order) != len(ids) {
		res.repair("feedOrder")
	}
	return order
}

func containsValue[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// encodePreferences serializes prefs in the current schema.
func encodePreferences(prefs models.UserPreferences) ([]byte, error) {
	prefs.Version = models.SchemaVersion
	if prefs.NewsCategories == nil {
		prefs.NewsCategories = []models.NewsCategory{}
	}
	if prefs.MovieGenres == nil {
		prefs.MovieGenres = []models.MovieGenre{}
	}
	if prefs.Favorites == nil {
		prefs.Favorites = []models.ContentItem{}
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	return data, nil
}
