// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwise/internal/models"
)

func tmdbMovies(base int64, n int, genre int) models.TMDBResponse {
	resp := models.TMDBResponse{Page: 1, TotalPages: 5, TotalResults: n}
	for i := 0; i < n; i++ {
		resp.Results = append(resp.Results, models.Movie{
			ID:          base + int64(i),
			Title:       "Movie",
			Overview:    "An overview",
			PosterPath:  models.Ptr("/poster.jpg"),
			ReleaseDate: "2025-12-01",
			VoteAverage: 7.5,
			GenreIDs:    []int{genre},
		})
	}
	return resp
}

func newTestTMDB(t *testing.T, handler http.HandlerFunc) *TMDBClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTMDBClient(TMDBConfig{
		BaseURL:      server.URL,
		AccessToken:  "tmdb-token",
		ImageBaseURL: "https://image.example/w500",
		Timeout:      2 * time.Second,
	})
}

func TestTMDBFetchByTags(t *testing.T) {
	t.Parallel()

	client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "authorization", r.Header.Get("Authorization"), "Bearer tmdb-token")
		checkStringEqual(t, "path", r.URL.Path, "/discover/movie")
		checkStringEqual(t, "sort_by", r.URL.Query().Get("sort_by"), "popularity.desc")
		switch r.URL.Query().Get("with_genres") {
		case "28":
			_ = json.NewEncoder(w).Encode(tmdbMovies(100, 15, 28))
		case "35":
			t.Error("unknown genre should not reach TMDB")
		default:
			_ = json.NewEncoder(w).Encode(tmdbMovies(200, 3, 18))
		}
	})

	items := client.FetchByTags(context.Background(), []string{"28", "35", "18"}, 1)

	// Action capped at 10, unknown genre 35 skipped, drama 3.
	checkIntEqual(t, "items", len(items), 13)
	checkStringEqual(t, "first id", items[0].ID, "movie-100")
	checkStringPtrEqual(t, "image", items[0].Image, "https://image.example/w500/poster.jpg")
	if items[0].MovieGenre == nil || *items[0].MovieGenre != models.GenreAction {
		t.Errorf("first genre = %v, want action", items[0].MovieGenre)
	}
	if items[0].Metadata == nil || items[0].Metadata.Rating == nil || *items[0].Metadata.Rating != 7.5 {
		t.Errorf("rating metadata missing: %+v", items[0].Metadata)
	}
}

func TestTMDBEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantPath string
		call     func(*TMDBClient) []models.ContentItem
		wantLen  int
	}{
		{"trending", "/trending/movie/week", func(c *TMDBClient) []models.ContentItem {
			return c.FetchTrending(context.Background())
		}, 10},
		{"search", "/search/movie", func(c *TMDBClient) []models.ContentItem {
			return c.Search(context.Background(), "dune")
		}, 20},
		{"popular", "/movie/popular", func(c *TMDBClient) []models.ContentItem {
			return c.FetchPopular(context.Background(), 2)
		}, 10},
		{"now playing", "/movie/now_playing", func(c *TMDBClient) []models.ContentItem {
			return c.FetchNowPlaying(context.Background())
		}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
				checkStringEqual(t, "path", r.URL.Path, tt.wantPath)
				_ = json.NewEncoder(w).Encode(tmdbMovies(1, 25, 28))
			})
			checkIntEqual(t, tt.name, len(tt.call(client)), tt.wantLen)
		})
	}
}

func TestTMDBFailureResolvesEmpty(t *testing.T) {
	t.Parallel()

	client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	})

	checkEmptyItems(t, "trending", client.FetchTrending(context.Background()))
	checkEmptyItems(t, "by tags", client.FetchByTags(context.Background(), []string{"28"}, 1))
}

func TestTMDBReleaseDateFallback(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := tmdbMovies(1, 1, 28)
		resp.Results[0].ReleaseDate = ""
		resp.Results[0].Overview = ""
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client := NewTMDBClient(TMDBConfig{BaseURL: server.URL, Now: func() time.Time { return fixed }})
	items := client.FetchTrending(context.Background())

	checkIntEqual(t, "items", len(items), 1)
	checkStringEqual(t, "publishedAt", items[0].PublishedAt, "2026-03-04T05:06:07Z")
	checkStringEqual(t, "description", items[0].Description, "No description available")
}
