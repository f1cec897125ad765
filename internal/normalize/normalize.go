// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package normalize converts provider-native records into models.ContentItem.
//
// Every function here is pure: the output depends only on the input and the
// options passed in. None of them panic on missing or nil fields; absent
// values degrade to documented fallbacks. The item id is always derived from
// stable upstream identifiers so the same record normalizes to the same id on
// every fetch.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tomtom215/feedwise/internal/models"
)

const (
	// NoDescription is the description of last resort.
	NoDescription = "No description available"

	// DefaultImageBaseURL is the TMDB poster base used when none is configured.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	// SourceTMDB labels every movie item.
	SourceTMDB = "TMDB"

	// SourceSocial labels every social item.
	SourceSocial = "Social Media"

	// UnknownSource labels news whose publisher name is missing.
	UnknownSource = "Unknown Source"

	// excerptRunes caps a description derived from article body content.
	excerptRunes = 300
)

// newsNamespace seeds deterministic ids for articles that arrive without a URL.
var newsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tomtom215/feedwise/news"))

// MovieOptions controls movie normalization.
type MovieOptions struct {
	// ImageBaseURL is prefixed to poster_path. Defaults to DefaultImageBaseURL.
	ImageBaseURL string

	// Now supplies the publishedAt fallback when release_date is empty.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewsID derives the item id for an article.
func NewsID(articleURL, title, publishedAt string) string {
	if u := strings.TrimSpace(articleURL); u != "" {
		return "news-" + u
	}
	return "news-" + uuid.NewSHA1(newsNamespace, []byte(title+"|"+publishedAt)).String()
}

// MovieID derives the item id for a TMDB movie.
func MovieID(id int64) string {
	return "movie-" + strconv.FormatInt(id, 10)
}

// NewsArticle normalizes a GNews or NewsAPI article. category is attached to
// the item when the article was fetched for a specific category.
func NewsArticle(a models.NewsArticle, category *models.NewsCategory) models.ContentItem {
	item := models.ContentItem{
		ID:          NewsID(a.URL, a.Title, a.PublishedAt),
		Type:        models.ContentTypeNews,
		Title:       strings.TrimSpace(a.Title),
		Description: describe(deref(a.Description), deref(a.Content)),
		Image:       firstNonEmpty(a.Image, a.URLToImage),
		Source:      orDefault(a.Source.Name, UnknownSource),
		PublishedAt: a.PublishedAt,
	}
	if u := strings.TrimSpace(a.URL); u != "" {
		item.URL = &u
	}
	if category != nil {
		c := *category
		item.NewsCategory = &c
	}
	if author := strings.TrimSpace(deref(a.Author)); author != "" {
		item.Metadata = &models.Metadata{Author: author}
	}
	return item
}

// Movie normalizes a TMDB movie.
func Movie(m models.Movie, opts MovieOptions) models.ContentItem {
	base := opts.ImageBaseURL
	if base == "" {
		base = DefaultImageBaseURL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	item := models.ContentItem{
		ID:          MovieID(m.ID),
		Type:        models.ContentTypeMovie,
		Title:       strings.TrimSpace(m.Title),
		Description: describe(m.Overview, ""),
		Source:      SourceTMDB,
		PublishedAt: m.ReleaseDate,
		Metadata:    &models.Metadata{Rating: models.Ptr(m.VoteAverage)},
	}
	if item.PublishedAt == "" {
		item.PublishedAt = now().UTC().Format(time.RFC3339)
	}
	if p := strings.TrimSpace(deref(m.PosterPath)); p != "" {
		img := strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
		item.Image = &img
	}
	if len(m.GenreIDs) > 0 {
		g := models.MovieGenre(m.GenreIDs[0])
		item.MovieGenre = &g
	}
	return item
}

// SocialPost normalizes a social post. The post id is already namespaced.
func SocialPost(p models.SocialPost) models.ContentItem {
	id := p.ID
	if !strings.HasPrefix(id, "social-") {
		id = "social-" + id
	}
	item := models.ContentItem{
		ID:          id,
		Type:        models.ContentTypeSocial,
		Title:       "@" + p.Username,
		Description: describe(p.Content, ""),
		Image:       firstNonEmpty(p.Image),
		Source:      SourceSocial,
		PublishedAt: p.Timestamp,
		Metadata: &models.Metadata{
			Author:   p.Username,
			Likes:    models.Ptr(p.Likes),
			Comments: models.Ptr(p.Comments),
		},
	}
	if len(p.Hashtags) > 0 {
		item.Metadata.Hashtags = append([]string(nil), p.Hashtags...)
	}
	return item
}

// describe applies the description fallback chain.
func describe(primary, body string) string {
	if d := strings.TrimSpace(primary); d != "" {
		return d
	}
	if b := strings.TrimSpace(body); b != "" {
		return excerpt(b, excerptRunes)
	}
	return NoDescription
}

// excerpt truncates s to at most n runes, appending an ellipsis when cut.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s != "" {
			return &s
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
