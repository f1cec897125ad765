// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

/*
Package models defines the data structures shared by every Feedwise component.

Key Components:

  - ContentItem: the unified record every source adapter produces
  - UserPreferences: the persisted personalization state
  - NewsCategory / MovieGenre: the closed vocabularies a user can select from
  - Provider records: NewsArticle, Movie, SocialPost and their response envelopes

Model Categories:

1. Unified Content:
  - ContentItem, ContentType, Metadata

2. Personalization:
  - UserPreferences, DefaultPreferences, SchemaVersion

3. Provider Records (input to internal/normalize):
  - NewsArticle, NewsSource, GNewsResponse
  - Movie, TMDBResponse
  - SocialPost

JSON field names follow the persisted blob and the HTTP API (camelCase for
unified records, provider spelling for provider records), so values decoded
from an older blob or a provider payload map onto these structs directly.
*/
package models
