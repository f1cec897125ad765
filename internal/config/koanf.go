// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/feedwise/config.yaml",
	"/etc/feedwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		News: NewsConfig{
			Provider:   NewsProviderGNews,
			BaseURL:    "https://gnews.io/api/v4",
			Language:   "en",
			MaxResults: 10,
			Timeout:    10 * time.Second,
			RateLimit:  2, // GNews free tier allows 100 requests/day; stay well clear of bursts
		},
		Movies: MoviesConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      10 * time.Second,
			RateLimit:    20,
		},
		Social: SocialConfig{
			RecentLimit: 8,
		},
		Aggregator: AggregatorConfig{
			MaxConcurrency: 16,
			SearchDebounce: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Preferences: PreferencesConfig{
			Backend: BackendBadger,
			Path:    "/data/feedwise/preferences",
			Key:     "dashboard_preferences",
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// News
	"news_provider":    "news.provider",
	"news_api_url":     "news.base_url",
	"news_api_key":     "news.api_key",
	"news_language":    "news.language",
	"news_max_results": "news.max_results",
	"news_timeout":     "news.timeout",
	"news_rate_limit":  "news.rate_limit",

	// Movies
	"tmdb_api_url":        "movies.base_url",
	"tmdb_access_token":   "movies.access_token",
	"tmdb_image_base_url": "movies.image_base_url",
	"tmdb_timeout":        "movies.timeout",
	"tmdb_rate_limit":     "movies.rate_limit",

	// Social
	"social_recent_limit": "social.recent_limit",

	// Aggregator
	"aggregator_max_concurrency": "aggregator.max_concurrency",
	"search_debounce":            "aggregator.search_debounce",

	// Cache
	"cache_enabled": "cache.enabled",
	"cache_ttl":     "cache.ttl",

	// Preferences
	"preferences_backend":    "preferences.backend",
	"preferences_path":       "preferences.path",
	"preferences_dsn":        "preferences.dsn",
	"preferences_redis_addr": "preferences.redis_addr",
	"preferences_redis_db":   "preferences.redis_db",
	"preferences_key":        "preferences.key",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - NEWS_API_KEY -> news.api_key
//   - TMDB_ACCESS_TOKEN -> movies.access_token
//   - PREFERENCES_BACKEND -> preferences.backend
//   - HTTP_PORT -> server.port
//
// Unmapped keys return "" so unrelated environment variables never leak into
// the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
