package extract

import (
	"fmt"
	"strings"

	"github.com/davide/bandi-radar/internal/crawl"
)

// Classifier decides whether a crawled page describes a funding opportunity.
// It is a pure function over the page text; the returned reason exists for
// logging only and is not part of the contract.
type Classifier struct {
	cfg      Config
	registry *Registry
}

func NewClassifier(cfg Config, registry *Registry) *Classifier {
	return &Classifier{cfg: cfg, registry: registry}
}

// Classify reports whether the page is an opportunity page and why.
// Pages with empty content are never opportunities; callers count them as
// ignored rather than errors.
func (c *Classifier) Classify(page crawl.CrawledPage) (bool, string) {
	if strings.TrimSpace(page.Content) == "" {
		return false, "empty_content"
	}

	// Sources that only publish opportunity pages under known paths skip the
	// keyword check entirely.
	if profile := c.registry.Match(page.URL); profile.PathHintMatches(page.URL) {
		return true, "source_path_override"
	}

	content := strings.ToLower(page.Content)

	hits := 0
	for _, kw := range c.cfg.FundingKeywords {
		if strings.Contains(content, kw) {
			hits++
		}
	}
	for _, kw := range c.cfg.ProceduralKeywords {
		if strings.Contains(content, kw) {
			hits++
		}
	}
	if hits >= c.cfg.MinKeywordHits {
		return true, fmt.Sprintf("keyword_hits:%d", hits)
	}

	if containsAny(content, c.cfg.DeadlineKeywords) &&
		containsAny(content, c.cfg.CurrencyTerms) &&
		containsAny(content, c.cfg.BeneficiaryTerms) {
		return true, "deadline_currency_beneficiary"
	}

	return false, fmt.Sprintf("insufficient_signals:%d", hits)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
