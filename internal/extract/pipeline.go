package extract

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/davide/bandi-radar/internal/crawl"
	"github.com/davide/bandi-radar/internal/models"
)

// Pipeline turns crawled pages into opportunity records: classify,
// extract fields, deduplicate. Safe for concurrent use.
type Pipeline struct {
	cfg          Config
	registry     *Registry
	classifier   *Classifier
	clock        func() time.Time
	financialRes []*regexp.Regexp
}

// Stats summarizes one Process run.
type Stats struct {
	PagesProcessed  int `json:"pages_processed"`
	Ignored         int `json:"ignored"`
	Classified      int `json:"classified"`
	Extracted       int `json:"extracted"`
	Duplicates      int `json:"duplicates"`
	FallbackRecords int `json:"fallback_records"`
	Errors          int `json:"errors"`
}

func NewPipeline(cfg Config, registry *Registry) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Pipeline{
		cfg:          cfg,
		registry:     registry,
		classifier:   NewClassifier(cfg, registry),
		clock:        time.Now,
		financialRes: compileFinancialRes(cfg.FinancialKeywords),
	}
}

// pageResult holds the outcome for one page; results are merged back in
// input order so deduplication stays deterministic.
type pageResult struct {
	ops      []*models.Opportunity
	ignored  bool
	reason   string
	fallback int
	err      error
}

// Process classifies and extracts every page, in parallel up to
// cfg.Workers, then deduplicates the yields in input order. Pages sharing
// a URL or a title+source fingerprint keep only the first occurrence.
func (p *Pipeline) Process(ctx context.Context, result crawl.CrawlResult) ([]*models.Opportunity, Stats, error) {
	pages := result.Pages
	results := make([]pageResult, len(pages))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processPage(pages[i])
			}
		}()
	}

	var canceled error
dispatch:
	for i := range pages {
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var stats Stats
	var out []*models.Opportunity
	seenURL := make(map[string]bool)
	seenFingerprint := make(map[string]bool)

	for i, res := range results {
		if canceled != nil && res.ops == nil && !res.ignored && res.err == nil {
			continue // never dispatched
		}
		stats.PagesProcessed++
		switch {
		case res.err != nil:
			stats.Errors++
			log.Printf("[extract] page %s: %v", pages[i].URL, res.err)
			continue
		case res.ignored:
			stats.Ignored++
			log.Printf("[extract] ignored %s: %s", pages[i].URL, res.reason)
		default:
			stats.Classified++
		}

		for _, opp := range res.ops {
			if seenURL[opp.SourceURL] || seenFingerprint[opp.Fingerprint()] {
				stats.Duplicates++
				continue
			}
			seenURL[opp.SourceURL] = true
			seenFingerprint[opp.Fingerprint()] = true
			out = append(out, opp)
			stats.Extracted++
			if opp.Provenance == models.ProvenanceLinkFallback {
				stats.FallbackRecords++
			}
		}
	}

	if canceled != nil {
		return out, stats, fmt.Errorf("extraction interrupted: %w", canceled)
	}
	return out, stats, nil
}

// processPage classifies one page and extracts its record. Extractor
// panics are contained here so one malformed page cannot take down the
// whole batch.
func (p *Pipeline) processPage(page crawl.CrawledPage) (res pageResult) {
	defer func() {
		if r := recover(); r != nil {
			res = pageResult{err: fmt.Errorf("extractor panic: %v", r)}
		}
	}()

	profile := p.registry.Match(page.URL)

	ok, reason := p.classifier.Classify(page)
	if !ok {
		res = pageResult{ignored: true, reason: reason}
		if profile != nil && profile.FallbackLinks {
			res.ops = p.linkFallback(page, profile)
		}
		return res
	}

	opp, err := p.extractPage(page, profile)
	if err != nil {
		if profile != nil && profile.FallbackLinks {
			return pageResult{ignored: true, reason: err.Error(), ops: p.linkFallback(page, profile)}
		}
		return pageResult{err: err}
	}
	return pageResult{ops: []*models.Opportunity{opp}}
}

// extractPage builds a full opportunity record from a classified page.
func (p *Pipeline) extractPage(page crawl.CrawledPage, profile *SourceProfile) (*models.Opportunity, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Content))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	text := stripMarkup(page.Content)

	title := p.extractTitle(doc, text, profile)
	if title == "" {
		title = cleanText(page.Title)
	}
	if len(title) <= p.cfg.MinTitleLen {
		return nil, fmt.Errorf("no usable title")
	}

	now := p.clock()
	deadline, deadlineRaw := p.extractDeadline(text, now)
	amountMin, amountMax, amountRaw := p.extractAmounts(text, profile)
	issuer, sourceName := classifyIssuer(page.URL, text, profile)

	return &models.Opportunity{
		ID:              uuid.New(),
		Title:           title,
		SourceName:      sourceName,
		SourceURL:       page.URL,
		IssuerType:      issuer,
		Sectors:         classifySectors(title, text, profile),
		Description:     p.extractDescription(doc, text, profile),
		FullDescription: sanitizeHTML(page.Content),
		Deadline:        deadline,
		DeadlineRaw:     deadlineRaw,
		AmountMin:       amountMin,
		AmountMax:       amountMax,
		AmountRaw:       amountRaw,
		Requirements:    extractRequirements(text, p.cfg.DeadlineWindow),
		SubmissionMode:  extractSubmissionMode(text, p.cfg.DeadlineWindow),
		Provenance:      models.ProvenancePage,
		ExtractionDate:  now,
	}, nil
}
