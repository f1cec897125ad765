// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package normalize

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/tomtom215/feedwise/internal/models"
)

// FeedItem normalizes an RSS/Atom entry parsed by gofeed into a news item.
// source is the feed's display name, used when the entry carries no author.
func FeedItem(entry *gofeed.Item, source string, category *models.NewsCategory) models.ContentItem {
	if entry == nil {
		return NewsArticle(models.NewsArticle{Source: models.NewsSource{Name: source}}, category)
	}

	published := ""
	switch {
	case entry.PublishedParsed != nil:
		published = entry.PublishedParsed.UTC().Format(time.RFC3339)
	case entry.UpdatedParsed != nil:
		published = entry.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		published = strings.TrimSpace(entry.Published)
	}

	article := models.NewsArticle{
		Source:      models.NewsSource{Name: source},
		Title:       entry.Title,
		Description: optional(stripTags(entry.Description)),
		URL:         entry.Link,
		Image:       feedImage(entry),
		PublishedAt: published,
		Content:     optional(stripTags(entry.Content)),
	}
	if entry.Author != nil {
		article.Author = optional(entry.Author.Name)
	}
	return NewsArticle(article, category)
}

func feedImage(entry *gofeed.Item) *string {
	if entry.Image != nil {
		if u := strings.TrimSpace(entry.Image.URL); u != "" {
			return &u
		}
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			u := enc.URL
			return &u
		}
	}
	return nil
}

// stripTags reduces feed HTML to decoded text, one space per tag. Script and
// style bodies are dropped.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func isRawTextTag(name []byte) bool {
	return string(name) == "script" || string(name) == "style"
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
