// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"testing"

	"github.com/tomtom215/feedwise/internal/models"
)

// Test assertion helpers with "check" prefix.
// Using t.Helper() ensures error messages point to the calling line.

// checkStringEqual checks that got equals want, failing if not
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkIntEqual checks that got equals want
func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkStringPtrEqual checks that ptr is not nil and equals want
func checkStringPtrEqual(t *testing.T, fieldName string, ptr *string, want string) {
	t.Helper()
	if ptr == nil {
		t.Errorf("%s should not be nil, expected %q", fieldName, want)
		return
	}
	if *ptr != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, *ptr)
	}
}

// checkEmptyItems checks that items is empty but not nil
func checkEmptyItems(t *testing.T, fieldName string, items []models.ContentItem) {
	t.Helper()
	if items == nil {
		t.Errorf("%s should be a non-nil empty slice", fieldName)
		return
	}
	if len(items) != 0 {
		t.Errorf("%s should be empty, got %d items", fieldName, len(items))
	}
}

// checkIDs checks the item ids in order
func checkIDs(t *testing.T, fieldName string, items []models.ContentItem, want ...string) {
	t.Helper()
	got := models.ItemIDs(items)
	if len(got) != len(want) {
		t.Errorf("%s: expected ids %v, got %v", fieldName, want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected ids %v, got %v", fieldName, want, got)
			return
		}
	}
}
