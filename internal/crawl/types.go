package crawl

import (
	"context"
	"time"
)

// CrawledPage is the immutable unit handed to the extraction engine.
// Content is the raw markup (or extracted PDF text) of the page.
type CrawledPage struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// CrawlResult is an ordered batch of pages from one crawl run.
type CrawlResult struct {
	Pages     []CrawledPage `json:"pages"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Fetcher retrieves a set of seed URLs and returns the crawled pages.
// Implementations own transport concerns (rate limiting, retries, charset);
// the extraction engine never fetches anything itself.
type Fetcher interface {
	FetchAll(ctx context.Context, seeds []string) (CrawlResult, error)
}
