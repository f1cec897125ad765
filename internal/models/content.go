// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package models

// ContentType discriminates the provider family a ContentItem came from.
type ContentType string

const (
	ContentTypeNews   ContentType = "news"
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSocial ContentType = "social"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeNews, ContentTypeMovie, ContentTypeSocial:
		return true
	default:
		return false
	}
}

// ContentItem is the unified content record produced by the normalizer.
//
// ID is namespaced by provider ("news-<url>", "movie-<tmdbID>", "social-<slug>")
// and is unique within any single batch an adapter returns. Two adapters never
// produce colliding ids because the namespaces differ.
//
// Example:
//
//	{
//	  "id": "movie-603",
//	  "type": "movie",
//	  "title": "The Matrix",
//	  "description": "Set in the 22nd century...",
//	  "image": "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
//	  "source": "TMDB",
//	  "publishedAt": "1999-03-30",
//	  "movieGenre": 28,
//	  "metadata": {"rating": 8.2}
//	}
type ContentItem struct {
	ID           string        `json:"id"`
	Type         ContentType   `json:"type"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Image        *string       `json:"image"`
	URL          *string       `json:"url,omitempty"`
	Source       string        `json:"source"`
	PublishedAt  string        `json:"publishedAt"`
	NewsCategory *NewsCategory `json:"newsCategory,omitempty"`
	MovieGenre   *MovieGenre   `json:"movieGenre,omitempty"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
}

// Metadata carries provider-specific enrichment. Every field is optional.
type Metadata struct {
	Author   string   `json:"author,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Likes    *int     `json:"likes,omitempty"`
	Comments *int     `json:"comments,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Clone returns a deep copy of the item so that callers holding a snapshot
// never observe later mutation of shared pointers.
func (c ContentItem) Clone() ContentItem {
	out := c
	out.Image = clonePtr(c.Image)
	out.URL = clonePtr(c.URL)
	out.NewsCategory = clonePtr(c.NewsCategory)
	out.MovieGenre = clonePtr(c.MovieGenre)
	if c.Metadata != nil {
		md := *c.Metadata
		md.Rating = clonePtr(c.Metadata.Rating)
		md.Likes = clonePtr(c.Metadata.Likes)
		md.Comments = clonePtr(c.Metadata.Comments)
		if c.Metadata.Hashtags != nil {
			md.Hashtags = append([]string(nil), c.Metadata.Hashtags...)
		}
		out.Metadata = &md
	}
	return out
}

// CloneItems deep-copies a slice of items. A nil input yields an empty, non-nil slice.
func CloneItems(items []ContentItem) []ContentItem {
	out := make([]ContentItem, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

// ItemIDs returns the id of every item in order.
func ItemIDs(items []ContentItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

// Ptr returns a pointer to v. Used for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
