// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.News.Provider != NewsProviderGNews {
		t.Errorf("News.Provider = %q, want gnews", cfg.News.Provider)
	}
	if cfg.News.MaxResults != 10 {
		t.Errorf("News.MaxResults = %d, want 10", cfg.News.MaxResults)
	}
	if cfg.News.Timeout != 10*time.Second {
		t.Errorf("News.Timeout = %v, want 10s", cfg.News.Timeout)
	}
	if cfg.Movies.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
		t.Errorf("Movies.ImageBaseURL = %q", cfg.Movies.ImageBaseURL)
	}
	if cfg.Social.RecentLimit != 8 {
		t.Errorf("Social.RecentLimit = %d, want 8", cfg.Social.RecentLimit)
	}
	if cfg.Aggregator.SearchDebounce != 500*time.Millisecond {
		t.Errorf("Aggregator.SearchDebounce = %v, want 500ms", cfg.Aggregator.SearchDebounce)
	}
	if cfg.Preferences.Key != "dashboard_preferences" {
		t.Errorf("Preferences.Key = %q, want dashboard_preferences", cfg.Preferences.Key)
	}
	if cfg.Preferences.Backend != BackendBadger {
		t.Errorf("Preferences.Backend = %q, want badger", cfg.Preferences.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NEWS_API_KEY", "news.api_key"},
		{"NEWS_PROVIDER", "news.provider"},
		{"TMDB_ACCESS_TOKEN", "movies.access_token"},
		{"PREFERENCES_BACKEND", "preferences.backend"},
		{"PREFERENCES_REDIS_ADDR", "preferences.redis_addr"},
		{"HTTP_PORT", "server.port"},
		{"SEARCH_DEBOUNCE", "aggregator.search_debounce"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile tests the config file search logic
func TestFindConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "feedwise-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origDir) }()

	t.Setenv(ConfigPathEnvVar, "")

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile("config.yaml", []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("{}"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}
}

// TestLoadWithKoanfEnvVars tests loading config from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origDir) }()

	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("NEWS_API_KEY", "test-news-key")
	t.Setenv("TMDB_ACCESS_TOKEN", "test-token")
	t.Setenv("PREFERENCES_BACKEND", "memory")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("NEWS_RATE_LIMIT", "0.5")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://feedwise.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.News.APIKey != "test-news-key" {
		t.Errorf("News.APIKey = %q", cfg.News.APIKey)
	}
	if cfg.Movies.AccessToken != "test-token" {
		t.Errorf("Movies.AccessToken = %q", cfg.Movies.AccessToken)
	}
	if cfg.Preferences.Backend != BackendMemory {
		t.Errorf("Preferences.Backend = %q", cfg.Preferences.Backend)
	}
	if cfg.Aggregator.SearchDebounce != 250*time.Millisecond {
		t.Errorf("Aggregator.SearchDebounce = %v", cfg.Aggregator.SearchDebounce)
	}
	if cfg.News.RateLimit != 0.5 {
		t.Errorf("News.RateLimit = %v", cfg.News.RateLimit)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://feedwise.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanfYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "feedwise.yaml")
	content := `
news:
  provider: rss
  rss_feeds:
    - name: Tech Feed
      url: https://tech.example/rss
      category: technology
    - name: World Feed
      url: https://world.example/rss
      category: world
preferences:
  backend: sqlite
  path: /tmp/prefs.db
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.News.Provider != NewsProviderRSS {
		t.Errorf("News.Provider = %q", cfg.News.Provider)
	}
	if len(cfg.News.RSSFeeds) != 2 || cfg.News.RSSFeeds[0].Category != "technology" {
		t.Errorf("News.RSSFeeds = %+v", cfg.News.RSSFeeds)
	}
	if cfg.Preferences.Backend != BackendSQLite || cfg.Preferences.Path != "/tmp/prefs.db" {
		t.Errorf("Preferences = %+v", cfg.Preferences)
	}
	// Values absent from the file keep their defaults.
	if cfg.Movies.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Movies.BaseURL = %q", cfg.Movies.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"unknown news provider", func(c *Config) { c.News.Provider = "bing" }, "NEWS_PROVIDER"},
		{"rss without feeds", func(c *Config) { c.News.Provider = NewsProviderRSS }, "rss_feeds is required"},
		{"rss bad category", func(c *Config) {
			c.News.Provider = NewsProviderRSS
			c.News.RSSFeeds = []RSSFeed{{Name: "x", URL: "https://x.example/rss", Category: "politics"}}
		}, "not a known news category"},
		{"bad tmdb url", func(c *Config) { c.Movies.BaseURL = "ftp://tmdb" }, "TMDB_API_URL"},
		{"postgres without dsn", func(c *Config) { c.Preferences.Backend = BackendPostgres }, "PREFERENCES_DSN"},
		{"redis without addr", func(c *Config) { c.Preferences.Backend = BackendRedis }, "PREFERENCES_REDIS_ADDR"},
		{"unknown backend", func(c *Config) { c.Preferences.Backend = "etcd" }, "PREFERENCES_BACKEND"},
		{"empty key", func(c *Config) { c.Preferences.Key = " " }, "PREFERENCES_KEY"},
		{"zero concurrency", func(c *Config) { c.Aggregator.MaxConcurrency = 0 }, "AGGREGATOR_MAX_CONCURRENCY"},
		{"cache without ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
