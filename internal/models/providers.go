// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package models

// NewsSource identifies the publisher of a news article.
type NewsSource struct {
	ID   *string `json:"id,omitempty"`
	Name string  `json:"name"`
	URL  string  `json:"url,omitempty"`
}

// NewsArticle is a provider-native news record. It accepts both the GNews
// shape (image) and the NewsAPI shape (urlToImage, author).
type NewsArticle struct {
	Source      NewsSource `json:"source"`
	Author      *string    `json:"author,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	Image       *string    `json:"image,omitempty"`
	URLToImage  *string    `json:"urlToImage,omitempty"`
	PublishedAt string     `json:"publishedAt"`
	Content     *string    `json:"content"`
}

// GNewsResponse is the envelope returned by the GNews search and top-headlines endpoints.
type GNewsResponse struct {
	TotalArticles int           `json:"totalArticles"`
	Articles      []NewsArticle `json:"articles"`
}

// Movie is a TMDB movie record as returned by discover, search, trending,
// popular and now_playing.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// TMDBResponse is the paginated TMDB list envelope.
type TMDBResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// SocialPost is a record from the social source.
type SocialPost struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Avatar    string   `json:"avatar"`
	Content   string   `json:"content"`
	Image     *string  `json:"image"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	Timestamp string   `json:"timestamp"`
	Hashtags  []string `json:"hashtags"`
}

// Engagement is likes plus comments, the trending sort key.
func (p SocialPost) Engagement() int {
	return p.Likes + p.Comments
}
