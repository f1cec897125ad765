// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package models

import (
	"strconv"
	"strings"
)

// NewsCategory is a news topic in the GNews category vocabulary.
type NewsCategory string

const (
	NewsGeneral       NewsCategory = "general"
	NewsWorld         NewsCategory = "world"
	NewsNation        NewsCategory = "nation"
	NewsBusiness      NewsCategory = "business"
	NewsTechnology    NewsCategory = "technology"
	NewsEntertainment NewsCategory = "entertainment"
	NewsSports        NewsCategory = "sports"
	NewsScience       NewsCategory = "science"
	NewsHealth        NewsCategory = "health"
)

// MovieGenre is a TMDB genre id.
type MovieGenre int

const (
	GenreAction         MovieGenre = 28
	GenreAnimation      MovieGenre = 16
	GenreDrama          MovieGenre = 18
	GenreFantasy        MovieGenre = 14
	GenreHorror         MovieGenre = 27
	GenreMystery        MovieGenre = 9648
	GenreScienceFiction MovieGenre = 878
	GenreThriller       MovieGenre = 53
)

// CatalogEntry pairs a selectable value with its display label.
type CatalogEntry[T any] struct {
	Value T      `json:"value"`
	Label string `json:"label"`
}

// NewsCategories lists every selectable category in display order.
var NewsCategories = []CatalogEntry[NewsCategory]{
	{NewsGeneral, "General"},
	{NewsWorld, "World"},
	{NewsNation, "Nation"},
	{NewsBusiness, "Business"},
	{NewsTechnology, "Technology"},
	{NewsEntertainment, "Entertainment"},
	{NewsSports, "Sports"},
	{NewsScience, "Science"},
	{NewsHealth, "Health"},
}

// MovieGenres lists every selectable genre in display order.
var MovieGenres = []CatalogEntry[MovieGenre]{
	{GenreAction, "Action"},
	{GenreAnimation, "Animation"},
	{GenreDrama, "Drama"},
	{GenreFantasy, "Fantasy"},
	{GenreHorror, "Horror"},
	{GenreMystery, "Mystery"},
	{GenreScienceFiction, "Science Fiction"},
	{GenreThriller, "Thriller"},
}

// Valid reports whether c is in the category vocabulary.
func (c NewsCategory) Valid() bool {
	for _, e := range NewsCategories {
		if e.Value == c {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value for unknown categories.
func (c NewsCategory) Label() string {
	for _, e := range NewsCategories {
		if e.Value == c {
			return e.Label
		}
	}
	return string(c)
}

// ParseNewsCategory parses a case-insensitive category name.
func ParseNewsCategory(s string) (NewsCategory, bool) {
	c := NewsCategory(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether g is a known TMDB genre id.
func (g MovieGenre) Valid() bool {
	for _, e := range MovieGenres {
		if e.Value == g {
			return true
		}
	}
	return false
}

// Label returns the display label, or the numeric id for unknown genres.
func (g MovieGenre) Label() string {
	for _, e := range MovieGenres {
		if e.Value == g {
			return e.Label
		}
	}
	return strconv.Itoa(int(g))
}

// String returns the genre id as TMDB expects it in with_genres.
func (g MovieGenre) String() string {
	return strconv.Itoa(int(g))
}

// ParseMovieGenre parses a numeric genre id.
func ParseMovieGenre(s string) (MovieGenre, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	g := MovieGenre(n)
	return g, g.Valid()
}
