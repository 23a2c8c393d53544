package crawl

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements Fetcher using Colly. It rate-limits per domain,
// retries transient errors and converts PDF responses to plain text so that
// attachment-only calls still reach the classifier.
type CollyFetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	DomainDelay    time.Duration
	MaxBodySize    int
}

// NewCollyFetcher returns a fetcher with polite defaults.
func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MaxRetries:     3,
		RequestTimeout: 30 * time.Second,
		DomainDelay:    1 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
	}
}

func (f *CollyFetcher) buildCollector(allowedDomains []string) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	}
	if len(allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(allowedDomains...))
	}

	c := colly.NewCollector(opts...)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       f.DomainDelay,
		RandomDelay: f.DomainDelay / 2,
	})
	c.SetRequestTimeout(f.RequestTimeout)

	c.OnError(func(r *colly.Response, err error) {
		if r.Request.Ctx.GetAny("retries") == nil {
			r.Request.Ctx.Put("retries", 0)
		}
		retries := r.Request.Ctx.GetAny("retries").(int)
		if retries < f.MaxRetries {
			r.Request.Ctx.Put("retries", retries+1)
			log.Printf("[crawl] retry %d/%d for %s: %v", retries+1, f.MaxRetries, r.Request.URL, err)
			time.Sleep(time.Duration(retries+1) * time.Second)
			r.Request.Retry()
		}
	})

	return c
}

// FetchAll visits every seed URL and collects the responses in seed order.
// Individual fetch failures are logged and skipped; a batch with some pages
// missing is still a valid crawl result.
func (f *CollyFetcher) FetchAll(ctx context.Context, seeds []string) (CrawlResult, error) {
	result := CrawlResult{FetchedAt: time.Now().UTC()}

	var mu sync.Mutex
	pagesByURL := make(map[string]CrawledPage, len(seeds))

	domains := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if u, err := url.Parse(seed); err == nil && u.Host != "" {
			domains = append(domains, u.Host)
		}
	}

	c := f.buildCollector(domains)

	c.OnResponse(func(r *colly.Response) {
		if err := ctx.Err(); err != nil {
			return
		}
		page := CrawledPage{URL: r.Request.URL.String()}

		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if strings.Contains(contentType, "application/pdf") || strings.HasSuffix(strings.ToLower(r.Request.URL.Path), ".pdf") {
			text, err := PDFToText(r.Body)
			if err != nil {
				log.Printf("[crawl] unparseable pdf at %s: %v", page.URL, err)
				return
			}
			page.Content = text
		} else {
			page.Content = string(r.Body)
		}

		mu.Lock()
		pagesByURL[seedKey(page.URL)] = page
		mu.Unlock()
	})

	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := c.Visit(seed); err != nil {
			log.Printf("[crawl] fetch error for %s: %v", seed, err)
		}
	}
	c.Wait()

	// Preserve seed order; redirected URLs fall back to append order.
	seen := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		if page, ok := pagesByURL[seedKey(seed)]; ok {
			result.Pages = append(result.Pages, page)
			seen[seedKey(seed)] = true
		}
	}
	for key, page := range pagesByURL {
		if !seen[key] {
			result.Pages = append(result.Pages, page)
		}
	}

	log.Printf("[crawl] fetched %d/%d seeds", len(result.Pages), len(seeds))
	return result, nil
}

func seedKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	return strings.TrimSuffix(u.String(), "/")
}
