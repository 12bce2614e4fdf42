// Package blog ingests the external feed behind the blog section. Fetching
// walks an ordered chain of transport strategies (direct XML, JSON-envelope
// proxy, JSON-items proxy) so a single unreachable proxy does not empty the
// section; results are cached on disk with a TTL and a shorter freshness
// window that suppresses refetch bursts.
package blog

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Description length cap, runes.
const maxDescription = 150

// maxTags caps how many tags a post keeps.
const maxTags = 3

// PostSummary is one rendered blog card. It is derived once from an
// upstream feed item and never mutated afterwards.
type PostSummary struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"` // formatted Y.M.D
	Link        string   `json:"link"`
	Tags        []string `json:"tags,omitempty"`
	Source      string   `json:"source"`
}

// FromFeedItem converts a parsed feed item into a PostSummary: description
// is HTML-stripped and length-capped with an ellipsis, the date is
// formatted Y.M.D, and at most maxTags categories survive.
func FromFeedItem(item *gofeed.Item, source string) PostSummary {
	desc := item.Description
	if desc == "" {
		desc = item.Content
	}
	desc = truncate(stripHTML(desc), maxDescription)

	published := time.Now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	tags := item.Categories
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	return PostSummary{
		Title:       strings.TrimSpace(item.Title),
		Description: desc,
		Date:        FormatDate(published),
		Link:        item.Link,
		Tags:        append([]string(nil), tags...),
		Source:      source,
	}
}

// FormatDate renders a time as Y.M.D without zero padding.
func FormatDate(t time.Time) string {
	return t.Format("2006.1.2")
}

// SamePosts reports whether two post lists would render identically,
// comparing title and date per item. Used to skip re-render and re-cache
// when a refetch brought back the same content.
func SamePosts(a, b []PostSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Title != b[i].Title || a[i].Date != b[i].Date {
			return false
		}
	}
	return true
}

// stripHTML drops tags and collapses whitespace.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// truncate caps s at n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
