// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package preferences

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tomtom215/feedwise/internal/models"
)

func categoriesOf(p models.UserPreferences) string {
	return strings.Join(p.CategoryStrings(), ",")
}

func genresOf(p models.UserPreferences) string {
	return strings.Join(p.GenreStrings(), ",")
}

func favoriteIDsOf(p models.UserPreferences) string {
	return strings.Join(models.ItemIDs(p.Favorites), ",")
}

func TestDecodePreferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		blob          string
		wantMigration string
		wantRepaired  string
		wantCats      string
		wantGenres    string
		wantFavorites string
		wantOrder     string
	}{
		{
			name:          "current shape",
			blob:          `{"version":3,"newsCategories":["sports"],"movieGenres":[27],"favorites":[{"id":"news-a","type":"news","title":"A"}],"feedOrder":["x","y"]}`,
			wantCats:      "sports",
			wantGenres:    "27",
			wantFavorites: "news-a",
			wantOrder:     "x,y",
		},
		{
			name:          "v1 categories only",
			blob:          `{"categories":["tech","sports"],"favorites":[{"id":"movie-1","type":"movie","title":"M"}]}`,
			wantMigration: MigrationV1,
			wantCats:      "general,technology",
			wantGenres:    "28,18",
			wantFavorites: "movie-1",
		},
		{
			name:          "v2 favorite ids",
			blob:          `{"newsCategories":["business"],"favoriteIds":["news-a","movie-2"]}`,
			wantMigration: MigrationV2,
			wantCats:      "business",
			wantGenres:    "28,18",
		},
		{
			name:          "v2 with both lists",
			blob:          `{"newsCategories":["science"],"movieGenres":[878],"favoriteIds":[]}`,
			wantMigration: MigrationV2,
			wantCats:      "science",
			wantGenres:    "878",
		},
		{
			name:          "v1 keeps feed order",
			blob:          `{"categories":["tech"],"favorites":[],"feedOrder":["movie-1","news-a"]}`,
			wantMigration: MigrationV1,
			wantCats:      "general,technology",
			wantGenres:    "28,18",
			wantOrder:     "movie-1,news-a",
		},
		{
			name:          "v2 keeps feed order",
			blob:          `{"newsCategories":["world"],"favoriteIds":["x"],"feedOrder":["b","a","b"]}`,
			wantMigration: MigrationV2,
			wantRepaired:  "feedOrder",
			wantCats:      "world",
			wantGenres:    "28,18",
			wantOrder:     "b,a",
		},
		{
			name:       "favoriteIds ignored when favorites present",
			blob:       `{"newsCategories":["health"],"movieGenres":[53],"favorites":[],"favoriteIds":["x"]}`,
			wantCats:   "health",
			wantGenres: "53",
		},
		{
			name:         "unknown values dropped",
			blob:         `{"newsCategories":["sports","astrology","sports"],"movieGenres":[28,35]}`,
			wantRepaired: "newsCategories,movieGenres",
			wantCats:     "sports",
			wantGenres:   "28",
		},
		{
			name:         "field type mismatch falls back alone",
			blob:         `{"newsCategories":"sports","movieGenres":[16]}`,
			wantRepaired: "newsCategories",
			wantCats:     "general,technology",
			wantGenres:   "16",
		},
		{
			name:          "bad favorites dropped individually",
			blob:          `{"favorites":[{"id":"a","type":"news"},{"id":7},{"title":"no id"},{"id":"a","type":"news"},{"id":"b","type":"movie"}]}`,
			wantRepaired:  "favorites",
			wantCats:      "general,technology",
			wantGenres:    "28,18",
			wantFavorites: "a,b",
		},
		{
			name:         "feed order duplicates collapse",
			blob:         `{"feedOrder":["b","a","b",""]}`,
			wantRepaired: "feedOrder",
			wantCats:     "general,technology",
			wantGenres:   "28,18",
			wantOrder:    "b,a",
		},
		{
			name:       "empty selections are kept",
			blob:       `{"newsCategories":[],"movieGenres":[],"favorites":[]}`,
			wantCats:   "",
			wantGenres: "",
		},
		{
			name:       "explicit nulls default",
			blob:       `{"newsCategories":null,"movieGenres":null,"favorites":null}`,
			wantCats:   "general,technology",
			wantGenres: "28,18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prefs, res, err := decodePreferences([]byte(tt.blob))
			if err != nil {
				t.Fatalf("decodePreferences() error = %v", err)
			}
			checkString(t, "migration", res.Migration, tt.wantMigration)
			checkString(t, "repaired", strings.Join(res.Repaired, ","), tt.wantRepaired)
			checkString(t, "categories", categoriesOf(prefs), tt.wantCats)
			checkString(t, "genres", genresOf(prefs), tt.wantGenres)
			checkString(t, "favorites", favoriteIDsOf(prefs), tt.wantFavorites)
			checkString(t, "feedOrder", strings.Join(prefs.FeedOrder, ","), tt.wantOrder)
			checkString(t, "version", fmt.Sprint(prefs.Version), fmt.Sprint(models.SchemaVersion))
			if prefs.Favorites == nil {
				t.Error("favorites must be non-nil")
			}
		})
	}
}

func TestDecodePreferencesTopLevelFailure(t *testing.T) {
	t.Parallel()
	for _, blob := range []string{"", "not json", "[1,2,3]", `{"newsCategories":`} {
		prefs, _, err := decodePreferences([]byte(blob))
		if err == nil {
			t.Errorf("decodePreferences(%q) expected error", blob)
		}
		checkString(t, "fallback categories", categoriesOf(prefs), "general,technology")
	}
}

func TestDecodePreferencesNewerVersion(t *testing.T) {
	t.Parallel()
	_, res, err := decodePreferences([]byte(`{"version":9,"newsCategories":["world"]}`))
	if err != nil {
		t.Fatalf("decodePreferences() error = %v", err)
	}
	if !res.Newer {
		t.Error("expected Newer for version 9")
	}
	if res.needsPersist() {
		t.Error("a newer blob that decodes cleanly should not be rewritten")
	}
}

func TestEncodePreferencesStampsVersion(t *testing.T) {
	t.Parallel()
	data, err := encodePreferences(models.UserPreferences{})
	if err != nil {
		t.Fatalf("encodePreferences() error = %v", err)
	}
	want := `{"version":3,"newsCategories":[],"movieGenres":[],"favorites":[]}`
	checkString(t, "blob", string(data), want)
}

func checkString(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}
