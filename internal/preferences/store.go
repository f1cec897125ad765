// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package preferences

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/overlay"
)

// Storage keys.
const (
	DefaultKey = "dashboard_preferences"
	// FavoritesKey holds a copy of the favorites list, kept for readers of
	// the pre-v3 layout.
	FavoritesKey = "dashboard_favorites"
)

// persistTimeout bounds one backend write. Writes are detached from the
// caller's cancellation so memory and storage never diverge.
const persistTimeout = 5 * time.Second

// Mutation operation names, used as the metrics label.
const (
	OpSave           = "save"
	OpMigrate        = "migrate"
	OpToggleCategory = "toggle_category"
	OpToggleGenre    = "toggle_genre"
	OpSetCategories  = "set_categories"
	OpSetGenres      = "set_genres"
	OpToggleFavorite = "toggle_favorite"
	OpAddFavorite    = "add_favorite"
	OpRemoveFavorite = "remove_favorite"
	OpSetFeedOrder   = "set_feed_order"
	OpResetFeedOrder = "reset_feed_order"
	OpResetAll       = "reset_all"
	OpClear          = "clear"
)

// Store owns the in-memory preferences and writes every change through to a
// Backend before returning. All methods are safe for concurrent use and
// return deep copies.
//
// Persistence failures never surface to callers: they are logged and counted,
// and the in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	backend Backend
	label   string
	key     string
	prefs   models.UserPreferences
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key of the preference blob.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithBackendLabel sets the backend name reported in metrics.
func WithBackendLabel(label string) Option {
	return func(s *Store) {
		if label != "" {
			s.label = label
		}
	}
}

// NewStore creates a store holding defaults. Call Load to read persisted state.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		label:   "unknown",
		key:     DefaultKey,
		prefs:   models.DefaultPreferences(),
		log:     logging.WithComponent("preferences"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted blob, upgrading legacy shapes and repairing
// invalid fields. A missing or unreadable blob yields defaults.
func (s *Store) Load(ctx context.Context) models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.prefs = models.DefaultPreferences()
		return s.prefs.Clone()
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("Failed to read preferences, using defaults")
		s.prefs = models.DefaultPreferences()
		return s.prefs.Clone()
	}

	prefs, res, err := decodePreferences(data)
	if err != nil {
		metrics.PreferenceMigrations.WithLabelValues(MigrationCorrupt).Inc()
		s.log.Warn().Err(err).Str("key", s.key).Msg("Stored preferences are unreadable, using defaults")
		s.prefs = models.DefaultPreferences()
		return s.prefs.Clone()
	}
	if res.Newer {
		s.log.Warn().Str("key", s.key).Msg("Stored preferences were written by a newer version")
	}
	if res.Migration != "" {
		metrics.PreferenceMigrations.WithLabelValues(res.Migration).Inc()
		s.log.Info().Str("from", res.Migration).Msg("Migrated legacy preferences")
	}
	if len(res.Repaired) > 0 {
		metrics.PreferenceMigrations.WithLabelValues(MigrationRepair).Inc()
		s.log.Warn().Strs("fields", res.Repaired).Msg("Repaired invalid preference fields")
	}

	s.prefs = prefs
	if res.needsPersist() {
		wctx, cancel := writeContext(ctx)
		defer cancel()
		s.persistLocked(wctx, OpMigrate)
	}
	return s.prefs.Clone()
}

// Snapshot returns the current preferences.
func (s *Store) Snapshot() models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

// IsFavorite reports whether an item with id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.FavoriteIndex(id) >= 0
}

// Save replaces the whole state with prefs and persists it. Unknown
// categories and genres are dropped and duplicates collapsed on the way in.
func (s *Store) Save(ctx context.Context, prefs models.UserPreferences) models.UserPreferences {
	next := sanitize(prefs)
	return s.mutate(ctx, OpSave, true, func(p *models.UserPreferences) bool {
		*p = next
		return true
	})
}

// ToggleCategory adds c if absent and removes it if present. Unknown
// categories are ignored.
func (s *Store) ToggleCategory(ctx context.Context, c models.NewsCategory) models.UserPreferences {
	return s.mutate(ctx, OpToggleCategory, false, func(p *models.UserPreferences) bool {
		if !c.Valid() {
			return false
		}
		p.NewsCategories = toggle(p.NewsCategories, c)
		return true
	})
}

// ToggleGenre adds g if absent and removes it if present. Unknown genres are
// ignored.
func (s *Store) ToggleGenre(ctx context.Context, g models.MovieGenre) models.UserPreferences {
	return s.mutate(ctx, OpToggleGenre, false, func(p *models.UserPreferences) bool {
		if !g.Valid() {
			return false
		}
		p.MovieGenres = toggle(p.MovieGenres, g)
		return true
	})
}

// SetCategories replaces the selected categories.
func (s *Store) SetCategories(ctx context.Context, cats []models.NewsCategory) models.UserPreferences {
	next := uniqueValid(cats)
	return s.mutate(ctx, OpSetCategories, false, func(p *models.UserPreferences) bool {
		p.NewsCategories = next
		return true
	})
}

// SetGenres replaces the selected genres.
func (s *Store) SetGenres(ctx context.Context, genres []models.MovieGenre) models.UserPreferences {
	next := uniqueValid(genres)
	return s.mutate(ctx, OpSetGenres, false, func(p *models.UserPreferences) bool {
		p.MovieGenres = next
		return true
	})
}

// ToggleFavorite removes the favorite with item's id if present, and
// otherwise appends a snapshot of item. Applying it twice restores the
// original list.
func (s *Store) ToggleFavorite(ctx context.Context, item models.ContentItem) models.UserPreferences {
	return s.mutate(ctx, OpToggleFavorite, true, func(p *models.UserPreferences) bool {
		if item.ID == "" {
			return false
		}
		if i := p.FavoriteIndex(item.ID); i >= 0 {
			p.Favorites = append(p.Favorites[:i:i], p.Favorites[i+1:]...)
			return true
		}
		p.Favorites = append(p.Favorites, item.Clone())
		return true
	})
}

// AddFavorite appends a snapshot of item unless a favorite with its id exists.
func (s *Store) AddFavorite(ctx context.Context, item models.ContentItem) models.UserPreferences {
	return s.mutate(ctx, OpAddFavorite, true, func(p *models.UserPreferences) bool {
		if item.ID == "" || p.FavoriteIndex(item.ID) >= 0 {
			return false
		}
		p.Favorites = append(p.Favorites, item.Clone())
		return true
	})
}

// RemoveFavorite removes the favorite with id, if any.
func (s *Store) RemoveFavorite(ctx context.Context, id string) models.UserPreferences {
	return s.mutate(ctx, OpRemoveFavorite, true, func(p *models.UserPreferences) bool {
		i := p.FavoriteIndex(id)
		if i < 0 {
			return false
		}
		p.Favorites = append(p.Favorites[:i:i], p.Favorites[i+1:]...)
		return true
	})
}

// SetFeedOrder overwrites the manual feed order. Duplicate ids keep their
// first occurrence.
func (s *Store) SetFeedOrder(ctx context.Context, ids []string) models.UserPreferences {
	order := overlay.Normalize(ids)
	return s.mutate(ctx, OpSetFeedOrder, false, func(p *models.UserPreferences) bool {
		p.FeedOrder = order
		return true
	})
}

// ResetFeedOrder clears the manual feed order.
func (s *Store) ResetFeedOrder(ctx context.Context) models.UserPreferences {
	return s.mutate(ctx, OpResetFeedOrder, false, func(p *models.UserPreferences) bool {
		if p.FeedOrder == nil {
			return false
		}
		p.FeedOrder = nil
		return true
	})
}

// ResetAll restores and persists the defaults.
func (s *Store) ResetAll(ctx context.Context) models.UserPreferences {
	return s.mutate(ctx, OpResetAll, true, func(p *models.UserPreferences) bool {
		*p = models.DefaultPreferences()
		return true
	})
}

// Clear deletes both storage keys and resets the in-memory state to defaults.
func (s *Store) Clear(ctx context.Context) models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.PreferenceMutations.WithLabelValues(OpClear).Inc()
	ctx, cancel := writeContext(ctx)
	defer cancel()
	for _, key := range []string{s.key, FavoritesKey} {
		if err := s.backend.Delete(ctx, key); err != nil {
			metrics.PreferencePersistErrors.WithLabelValues(s.label).Inc()
			s.log.Error().Err(err).Str("key", key).Msg("Failed to delete preferences")
		}
	}
	s.prefs = models.DefaultPreferences()
	return s.prefs.Clone()
}

// mutate applies fn under the lock. When fn reports a change the new state is
// persisted, along with the favorites mirror if mirror is set.
func (s *Store) mutate(ctx context.Context, op string, mirror bool, fn func(p *models.UserPreferences) bool) models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.prefs) {
		return s.prefs.Clone()
	}
	metrics.PreferenceMutations.WithLabelValues(op).Inc()
	ctx, cancel := writeContext(ctx)
	defer cancel()
	s.persistLocked(ctx, op)
	if mirror {
		s.persistFavoritesLocked(ctx)
	}
	return s.prefs.Clone()
}

// writeContext keeps ctx values (request and correlation ids) but drops its
// cancellation, bounded by persistTimeout.
func writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func (s *Store) persistLocked(ctx context.Context, op string) {
	data, err := encodePreferences(s.prefs)
	if err == nil {
		err = s.backend.Put(ctx, s.key, data)
	}
	if err != nil {
		metrics.PreferencePersistErrors.WithLabelValues(s.label).Inc()
		s.log.Error().Err(err).Str("key", s.key).Str("operation", op).Msg("Failed to persist preferences")
	}
}

func (s *Store) persistFavoritesLocked(ctx context.Context) {
	favorites := s.prefs.Favorites
	if favorites == nil {
		favorites = []models.ContentItem{}
	}
	data, err := json.Marshal(favorites)
	if err == nil {
		err = s.backend.Put(ctx, FavoritesKey, data)
	}
	if err != nil {
		metrics.PreferencePersistErrors.WithLabelValues(s.label).Inc()
		s.log.Error().Err(err).Str("key", FavoritesKey).Msg("Failed to persist favorites")
	}
}

type validValue interface {
	comparable
	Valid() bool
}

func toggle[T comparable](values []T, v T) []T {
	for i, x := range values {
		if x == v {
			return append(values[:i:i], values[i+1:]...)
		}
	}
	return append(values, v)
}

func uniqueValid[T validValue](values []T) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		if v.Valid() && !containsValue(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// sanitize returns a deep copy of prefs that satisfies the store invariants.
func sanitize(prefs models.UserPreferences) models.UserPreferences {
	out := models.UserPreferences{
		Version:        models.SchemaVersion,
		NewsCategories: uniqueValid(prefs.NewsCategories),
		MovieGenres:    uniqueValid(prefs.MovieGenres),
		Favorites:      make([]models.ContentItem, 0, len(prefs.Favorites)),
		FeedOrder:      overlay.Normalize(prefs.FeedOrder),
	}
	seen := make(map[string]struct{}, len(prefs.Favorites))
	for i := range prefs.Favorites {
		id := prefs.Favorites[i].ID
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out.Favorites = append(out.Favorites, prefs.Favorites[i].Clone())
	}
	return out
}
