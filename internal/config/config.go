// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package config loads Feedwise configuration from defaults, an optional YAML
// file and environment variables (in increasing order of precedence).
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
//
// See LoadWithKoanf for the layering rules and envTransformFunc for the
// supported environment variables.
package config

import (
	"fmt"
	"time"
)

// News provider names.
const (
	NewsProviderGNews = "gnews"
	NewsProviderRSS   = "rss"
)

// Preference backend names.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the complete Feedwise configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	News        NewsConfig        `koanf:"news"`
	Movies      MoviesConfig      `koanf:"movies"`
	Social      SocialConfig      `koanf:"social"`
	Aggregator  AggregatorConfig  `koanf:"aggregator"`
	Cache       CacheConfig       `koanf:"cache"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewsConfig selects and configures the news source.
//
// Environment Variables:
//   - NEWS_PROVIDER: gnews or rss (default: gnews)
//   - NEWS_API_URL: GNews base URL (default: https://gnews.io/api/v4)
//   - NEWS_API_KEY: GNews API key
//   - NEWS_LANGUAGE: article language (default: en)
//   - NEWS_MAX_RESULTS: articles per request (default: 10)
//   - NEWS_TIMEOUT: per-request timeout (default: 10s)
//   - NEWS_RATE_LIMIT: sustained requests per second (default: 2)
//
// RSS feeds are configured in the YAML file only:
//
//	news:
//	  provider: rss
//	  rss_feeds:
//	    - name: Ars Technica
//	      url: https://feeds.arstechnica.com/arstechnica/index
//	      category: technology
type NewsConfig struct {
	Provider   string        `koanf:"provider"`
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Language   string        `koanf:"language"`
	MaxResults int           `koanf:"max_results"`
	Timeout    time.Duration `koanf:"timeout"`
	RateLimit  float64       `koanf:"rate_limit"`
	RSSFeeds   []RSSFeed     `koanf:"rss_feeds"`
}

// RSSFeed is one feed served by the RSS news provider.
type RSSFeed struct {
	Name     string `koanf:"name"`
	URL      string `koanf:"url"`
	Category string `koanf:"category"`
}

// MoviesConfig configures the TMDB client.
//
// Environment Variables:
//   - TMDB_API_URL: TMDB base URL (default: https://api.themoviedb.org/3)
//   - TMDB_ACCESS_TOKEN: TMDB v4 read access token (sent as a bearer token)
//   - TMDB_IMAGE_BASE_URL: poster base URL (default: https://image.tmdb.org/t/p/w500)
//   - TMDB_TIMEOUT: per-request timeout (default: 10s)
//   - TMDB_RATE_LIMIT: sustained requests per second (default: 20)
type MoviesConfig struct {
	BaseURL      string        `koanf:"base_url"`
	AccessToken  string        `koanf:"access_token"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	RateLimit    float64       `koanf:"rate_limit"`
}

// SocialConfig configures the social source.
type SocialConfig struct {
	// RecentLimit is the number of posts mixed into the personalized feed.
	RecentLimit int `koanf:"recent_limit"`
}

// AggregatorConfig tunes the fan-out.
type AggregatorConfig struct {
	MaxConcurrency int           `koanf:"max_concurrency"`
	SearchDebounce time.Duration `koanf:"search_debounce"`
}

// CacheConfig controls the source result cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// PreferencesConfig selects the preference storage backend.
//
// Environment Variables:
//   - PREFERENCES_BACKEND: memory, badger, sqlite, postgres or redis (default: badger)
//   - PREFERENCES_PATH: directory (badger) or file (sqlite) path
//   - PREFERENCES_DSN: PostgreSQL connection string
//   - PREFERENCES_REDIS_ADDR: Redis address (host:port)
//   - PREFERENCES_REDIS_DB: Redis database number
//   - PREFERENCES_KEY: storage key of the preference blob (default: dashboard_preferences)
type PreferencesConfig struct {
	Backend   string `koanf:"backend"`
	Path      string `koanf:"path"`
	DSN       string `koanf:"dsn"`
	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`
	Key       string `koanf:"key"`
}

// SecurityConfig holds HTTP-level protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load is the entry point used by cmd/server.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
