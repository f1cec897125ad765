// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/normalize"
)

const (
	socialTrendingCap = 5

	// DefaultSocialRecentLimit is the number of posts mixed into a feed.
	DefaultSocialRecentLimit = 8
)

// socialSeed is a static post published age before the clock.
type socialSeed struct {
	post models.SocialPost
	age  time.Duration
}

var socialSeeds = []socialSeed{
	{age: 2 * time.Hour, post: models.SocialPost{
		ID:       "social-1",
		Username: "tech_enthusiast",
		Avatar:   "https://picsum.photos/seed/user1/100",
		Content:  "Just discovered an amazing new framework for building web apps! The developer experience is incredible. #webdev #javascript #react",
		Image:    models.Ptr("https://picsum.photos/seed/tech1/600/400"),
		Likes:    245,
		Comments: 32,
		Hashtags: []string{"webdev", "javascript", "react"},
	}},
	{age: 4 * time.Hour, post: models.SocialPost{
		ID:       "social-2",
		Username: "sports_daily",
		Avatar:   "https://picsum.photos/seed/user2/100",
		Content:  "What a game! The championship final was absolutely thrilling. Both teams played exceptionally well. #sports #championship #gameday",
		Image:    models.Ptr("https://picsum.photos/seed/sports1/600/400"),
		Likes:    892,
		Comments: 156,
		Hashtags: []string{"sports", "championship", "gameday"},
	}},
	{age: 6 * time.Hour, post: models.SocialPost{
		ID:       "social-3",
		Username: "finance_guru",
		Avatar:   "https://picsum.photos/seed/user3/100",
		Content:  "Market analysis: Key indicators suggest interesting trends for Q2. Always do your own research! #finance #investing #markets",
		Likes:    567,
		Comments: 89,
		Hashtags: []string{"finance", "investing", "markets"},
	}},
	{age: 8 * time.Hour, post: models.SocialPost{
		ID:       "social-4",
		Username: "entertainment_buzz",
		Avatar:   "https://picsum.photos/seed/user4/100",
		Content:  "New movie releases this weekend are looking fantastic! Can't wait to catch them all. #movies #entertainment #weekend",
		Image:    models.Ptr("https://picsum.photos/seed/movie1/600/400"),
		Likes:    1203,
		Comments: 234,
		Hashtags: []string{"movies", "entertainment", "weekend"},
	}},
	{age: 10 * time.Hour, post: models.SocialPost{
		ID:       "social-5",
		Username: "health_wellness",
		Avatar:   "https://picsum.photos/seed/user5/100",
		Content:  "Morning workout complete! Remember, consistency is key to achieving your fitness goals. #health #fitness #wellness",
		Image:    models.Ptr("https://picsum.photos/seed/fitness1/600/400"),
		Likes:    445,
		Comments: 67,
		Hashtags: []string{"health", "fitness", "wellness"},
	}},
	{age: 12 * time.Hour, post: models.SocialPost{
		ID:       "social-6",
		Username: "science_daily",
		Avatar:   "https://picsum.photos/seed/user6/100",
		Content:  "Fascinating new research on renewable energy! The future is looking brighter. #science #technology #sustainability",
		Image:    models.Ptr("https://picsum.photos/seed/science1/600/400"),
		Likes:    678,
		Comments: 123,
		Hashtags: []string{"science", "technology", "sustainability"},
	}},
	{age: 14 * time.Hour, post: models.SocialPost{
		ID:       "social-7",
		Username: "coding_life",
		Avatar:   "https://picsum.photos/seed/user7/100",
		Content:  "Debugging at 2 AM hits different 😅 But finally solved that tricky bug! #coding #programming #developer",
		Likes:    512,
		Comments: 78,
		Hashtags: []string{"coding", "programming", "developer"},
	}},
	{age: 16 * time.Hour, post: models.SocialPost{
		ID:       "social-8",
		Username: "travel_diaries",
		Avatar:   "https://picsum.photos/seed/user8/100",
		Content:  "Exploring hidden gems around the world. This place is absolutely breathtaking! #travel #adventure #explore",
		Image:    models.Ptr("https://picsum.photos/seed/travel1/600/400"),
		Likes:    1456,
		Comments: 289,
		Hashtags: []string{"travel", "adventure", "explore"},
	}},
}

// SocialSource serves a fixed set of social posts. Timestamps are computed
// relative to the injected clock on every call.
type SocialSource struct {
	now func() time.Time
}

// NewSocialSource returns a social adapter. A nil clock means time.Now.
func NewSocialSource(now func() time.Time) *SocialSource {
	if now == nil {
		now = time.Now
	}
	return &SocialSource{now: now}
}

// Name implements Adapter.
func (s *SocialSource) Name() string { return "social" }

// FetchRecent returns the newest limit posts. limit <= 0 means DefaultSocialRecentLimit.
func (s *SocialSource) FetchRecent(ctx context.Context, limit int) []models.ContentItem {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultSocialRecentLimit
	}
	items := s.toItems(capItems(s.posts(), limit))
	return observe(ctx, s.Name(), OpRecent, start, items, ctx.Err())
}

// FetchByTags returns posts carrying any of the given hashtags. The social
// source has a single page.
func (s *SocialSource) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	start := time.Now()
	wanted := cleanTags(tags)
	if len(wanted) == 0 || page > 1 {
		return []models.ContentItem{}
	}
	for i, t := range wanted {
		wanted[i] = strings.ToLower(strings.TrimPrefix(t, "#"))
	}

	var matched []models.SocialPost
	for _, p := range s.posts() {
		if slices.ContainsFunc(p.Hashtags, func(h string) bool {
			return slices.Contains(wanted, strings.ToLower(h))
		}) {
			matched = append(matched, p)
		}
	}
	return observe(ctx, s.Name(), OpFetchByTags, start, s.toItems(matched), ctx.Err())
}

// FetchTrending returns the five posts with the highest likes plus comments.
func (s *SocialSource) FetchTrending(ctx context.Context) []models.ContentItem {
	start := time.Now()
	posts := s.posts()
	slices.SortStableFunc(posts, func(a, b models.SocialPost) int {
		return b.Engagement() - a.Engagement()
	})
	items := s.toItems(capItems(posts, socialTrendingCap))
	return observe(ctx, s.Name(), OpTrending, start, items, ctx.Err())
}

// Search matches a case-insensitive substring of content, username or any hashtag.
func (s *SocialSource) Search(ctx context.Context, query string) []models.ContentItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.ContentItem{}
	}
	start := time.Now()

	var matched []models.SocialPost
	for _, p := range s.posts() {
		if strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.Username), q) ||
			slices.ContainsFunc(p.Hashtags, func(h string) bool {
				return strings.Contains(strings.ToLower(h), q)
			}) {
			matched = append(matched, p)
		}
	}
	return observe(ctx, s.Name(), OpSearch, start, s.toItems(matched), ctx.Err())
}

// posts materializes the seeds against the current clock.
func (s *SocialSource) posts() []models.SocialPost {
	now := s.now()
	out := make([]models.SocialPost, 0, len(socialSeeds))
	for _, seed := range socialSeeds {
		p := seed.post
		p.Timestamp = now.Add(-seed.age).UTC().Format(time.RFC3339)
		p.Hashtags = slices.Clone(seed.post.Hashtags)
		out = append(out, p)
	}
	return out
}

func (s *SocialSource) toItems(posts []models.SocialPost) []models.ContentItem {
	items := make([]models.ContentItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, normalize.SocialPost(p))
	}
	return items
}
