package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// Strategy is one way of reaching the upstream feed. Strategies are tried
// in order; a strategy fails on a non-OK status, a parse error, or zero
// extracted items, and the chain moves on.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, client *http.Client, feedURL string) ([]PostSummary, error)
}

// sourceLabel tags posts with where they came from.
const sourceLabel = "velog"

// directStrategy fetches the feed URL itself and parses the XML body.
type directStrategy struct{}

func (directStrategy) Name() string { return "direct" }

func (directStrategy) Fetch(ctx context.Context, client *http.Client, feedURL string) ([]PostSummary, error) {
	body, err := get(ctx, client, feedURL)
	if err != nil {
		return nil, err
	}
	return parseFeedXML(string(body))
}

// envelopeStrategy fetches through an allorigins-style proxy that wraps the
// raw feed document in a JSON {"contents": ...} envelope.
type envelopeStrategy struct {
	endpoint string
}

func (envelopeStrategy) Name() string { return "json-envelope" }

func (s envelopeStrategy) Fetch(ctx context.Context, client *http.Client, feedURL string) ([]PostSummary, error) {
	u := fmt.Sprintf("%s?url=%s", s.endpoint, url.QueryEscape(feedURL))
	body, err := get(ctx, client, u)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("blog: decode envelope: %w", err)
	}
	if envelope.Contents == "" {
		return nil, fmt.Errorf("blog: envelope has no contents")
	}
	return parseFeedXML(envelope.Contents)
}

// jsonItemsStrategy fetches through an rss2json-style proxy that converts
// the feed to JSON items server-side.
type jsonItemsStrategy struct {
	endpoint string
}

func (jsonItemsStrategy) Name() string { return "json-items" }

func (s jsonItemsStrategy) Fetch(ctx context.Context, client *http.Client, feedURL string) ([]PostSummary, error) {
	u := fmt.Sprintf("%s?rss_url=%s", s.endpoint, url.QueryEscape(feedURL))
	body, err := get(ctx, client, u)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Status string `json:"status"`
		Items  []struct {
			Title       string   `json:"title"`
			PubDate     string   `json:"pubDate"`
			Link        string   `json:"link"`
			Description string   `json:"description"`
			Categories  []string `json:"categories"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("blog: decode items payload: %w", err)
	}
	if payload.Status != "" && payload.Status != "ok" {
		return nil, fmt.Errorf("blog: proxy status %q", payload.Status)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("blog: proxy returned no items")
	}

	posts := make([]PostSummary, 0, len(payload.Items))
	for _, it := range payload.Items {
		item := &gofeed.Item{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			Categories:  it.Categories,
		}
		if t, err := time.Parse("2006-01-02 15:04:05", it.PubDate); err == nil {
			item.PublishedParsed = &t
		}
		posts = append(posts, FromFeedItem(item, sourceLabel))
	}
	return posts, nil
}

// parseFeedXML runs gofeed over a raw XML document and converts the items.
func parseFeedXML(doc string) ([]PostSummary, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("blog: parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("blog: feed has no items")
	}
	posts := make([]PostSummary, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, FromFeedItem(item, sourceLabel))
	}
	return posts, nil
}

// get performs a GET and returns the body for 2xx responses.
func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("blog: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blog: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("blog: fetch %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("blog: read body: %w", err)
	}
	return body, nil
}
