// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package validation

import "github.com/tomtom215/feedwise/internal/models"

// Size limits for request bodies.
const (
	MaxQueryLength = 200
	MaxIDLength    = 512
	MaxFeedOrder   = 1000
)

// ReorderRequest moves one feed item. Pointers distinguish a missing index
// from index 0.
type ReorderRequest struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

// SearchInputRequest is typed search input, searched after the debounce delay.
type SearchInputRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// SearchQuery is the query string of an immediate search.
type SearchQuery struct {
	Q string `json:"q" validate:"max=200"`
}

// MoviePageQuery is the page of a movie recommendations request. TMDB serves
// at most 500 pages.
type MoviePageQuery struct {
	Page int `json:"page" validate:"min=1,max=500"`
}

// FeedOrderRequest overwrites the manual feed order.
type FeedOrderRequest struct {
	IDs []string `json:"ids" validate:"required,max=1000,dive,required,max=512"`
}

// CategoriesRequest replaces the selected news categories.
type CategoriesRequest struct {
	Categories []string `json:"categories" validate:"required,max=9,dive,newscategory"`
}

// GenresRequest replaces the selected movie genres.
type GenresRequest struct {
	Genres []int `json:"genres" validate:"required,max=8,dive,moviegenre"`
}

// favoriteItem holds the fields of a ContentItem that must be present for it
// to be stored as a favorite.
type favoriteItem struct {
	ID    string `json:"id" validate:"required,max=512"`
	Type  string `json:"type" validate:"required,oneof=news movie social"`
	Title string `json:"title" validate:"max=1000"`
}

// ValidateFavorite checks an item posted for the favorites list.
func ValidateFavorite(item models.ContentItem) *RequestValidationError {
	return ValidateStruct(&favoriteItem{ID: item.ID, Type: string(item.Type), Title: item.Title})
}
