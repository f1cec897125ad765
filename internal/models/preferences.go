// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package models

// SchemaVersion is the version stamped on every blob written by this build.
//
// History:
//   - v1: {categories, favorites}
//   - v2: {newsCategories, movieGenres, favoriteIds}
//   - v3: {version, newsCategories, movieGenres, favorites, feedOrder}
const SchemaVersion = 3

// UserPreferences is the persisted personalization state of the local user.
//
// NewsCategories and MovieGenres have set semantics with insertion order
// preserved. Favorites holds full item snapshots so they render without a
// refetch; no two favorites share an id. FeedOrder, when non-empty, is the
// manual ordering overlay applied to the personalized feed.
type UserPreferences struct {
	Version        int            `json:"version"`
	NewsCategories []NewsCategory `json:"newsCategories"`
	MovieGenres    []MovieGenre   `json:"movieGenres"`
	Favorites      []ContentItem  `json:"favorites"`
	FeedOrder      []string       `json:"feedOrder,omitempty"`
}

// DefaultPreferences returns the first-run preferences.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Version:        SchemaVersion,
		NewsCategories: DefaultNewsCategories(),
		MovieGenres:    DefaultMovieGenres(),
		Favorites:      []ContentItem{},
	}
}

// DefaultNewsCategories returns [general, technology].
func DefaultNewsCategories() []NewsCategory {
	return []NewsCategory{NewsGeneral, NewsTechnology}
}

// DefaultMovieGenres returns [Action, Drama].
func DefaultMovieGenres() []MovieGenre {
	return []MovieGenre{GenreAction, GenreDrama}
}

// Clone returns a deep copy.
func (p UserPreferences) Clone() UserPreferences {
	out := UserPreferences{
		Version:        p.Version,
		NewsCategories: append([]NewsCategory{}, p.NewsCategories...),
		MovieGenres:    append([]MovieGenre{}, p.MovieGenres...),
		Favorites:      CloneItems(p.Favorites),
	}
	if len(p.FeedOrder) > 0 {
		out.FeedOrder = append([]string(nil), p.FeedOrder...)
	}
	return out
}

// FavoriteIndex returns the index of the favorite with id, or -1.
func (p UserPreferences) FavoriteIndex(id string) int {
	for i := range p.Favorites {
		if p.Favorites[i].ID == id {
			return i
		}
	}
	return -1
}

// CategoryStrings returns the selected categories as plain strings (adapter tags).
func (p UserPreferences) CategoryStrings() []string {
	out := make([]string, len(p.NewsCategories))
	for i, c := range p.NewsCategories {
		out[i] = string(c)
	}
	return out
}

// GenreStrings returns the selected genres as decimal ids (adapter tags).
func (p UserPreferences) GenreStrings() []string {
	out := make([]string, len(p.MovieGenres))
	for i, g := range p.MovieGenres {
		out[i] = g.String()
	}
	return out
}
