// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/feedwise/internal/models"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateNews(); err != nil {
		return err
	}
	if err := c.validateMovies(); err != nil {
		return err
	}
	if err := c.validateAggregator(); err != nil {
		return err
	}
	if err := c.validatePreferences(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateNews() error {
	if c.News.MaxResults < 1 || c.News.MaxResults > 100 {
		return fmt.Errorf("NEWS_MAX_RESULTS must be between 1 and 100, got %d", c.News.MaxResults)
	}
	if c.News.Timeout <= 0 {
		return fmt.Errorf("NEWS_TIMEOUT must be positive")
	}
	if c.News.RateLimit < 0 {
		return fmt.Errorf("NEWS_RATE_LIMIT must not be negative")
	}

	switch c.News.Provider {
	case NewsProviderGNews:
		return validateHTTPURL("NEWS_API_URL", c.News.BaseURL)
	case NewsProviderRSS:
		if len(c.News.RSSFeeds) == 0 {
			return fmt.Errorf("news.rss_feeds is required when NEWS_PROVIDER=rss")
		}
		for i, feed := range c.News.RSSFeeds {
			if err := validateHTTPURL(fmt.Sprintf("news.rss_feeds[%d].url", i), feed.URL); err != nil {
				return err
			}
			if _, ok := models.ParseNewsCategory(feed.Category); !ok {
				return fmt.Errorf("news.rss_feeds[%d].category %q is not a known news category", i, feed.Category)
			}
		}
		return nil
	default:
		return fmt.Errorf("NEWS_PROVIDER must be %q or %q, got %q", NewsProviderGNews, NewsProviderRSS, c.News.Provider)
	}
}

func (c *Config) validateMovies() error {
	if err := validateHTTPURL("TMDB_API_URL", c.Movies.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("TMDB_IMAGE_BASE_URL", c.Movies.ImageBaseURL); err != nil {
		return err
	}
	if c.Movies.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.Movies.RateLimit < 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must not be negative")
	}
	return nil
}

func (c *Config) validateAggregator() error {
	if c.Social.RecentLimit < 0 {
		return fmt.Errorf("SOCIAL_RECENT_LIMIT must not be negative")
	}
	if c.Aggregator.MaxConcurrency < 1 {
		return fmt.Errorf("AGGREGATOR_MAX_CONCURRENCY must be at least 1")
	}
	if c.Aggregator.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	return nil
}

func (c *Config) validatePreferences() error {
	if strings.TrimSpace(c.Preferences.Key) == "" {
		return fmt.Errorf("PREFERENCES_KEY must not be empty")
	}

	switch c.Preferences.Backend {
	case BackendMemory:
		return nil
	case BackendBadger, BackendSQLite:
		if c.Preferences.Path == "" {
			return fmt.Errorf("PREFERENCES_PATH is required when PREFERENCES_BACKEND=%s", c.Preferences.Backend)
		}
		return nil
	case BackendPostgres:
		if c.Preferences.DSN == "" {
			return fmt.Errorf("PREFERENCES_DSN is required when PREFERENCES_BACKEND=postgres")
		}
		return nil
	case BackendRedis:
		if c.Preferences.RedisAddr == "" {
			return fmt.Errorf("PREFERENCES_REDIS_ADDR is required when PREFERENCES_BACKEND=redis")
		}
		return nil
	default:
		return fmt.Errorf("PREFERENCES_BACKEND must be one of memory, badger, sqlite, postgres, redis; got %q", c.Preferences.Backend)
	}
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 unless DISABLE_RATE_LIMIT=true")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
