package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/davide/bandi-radar/internal/crawl"
	"github.com/davide/bandi-radar/internal/models"
)

// linkFallback recovers records from listing pages whose detail content
// could not be extracted. Anchors whose text carries a funding keyword
// become minimal opportunities with profile defaults and no deadline.
func (p *Pipeline) linkFallback(page crawl.CrawledPage, profile *SourceProfile) []*models.Opportunity {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Content))
	if err != nil {
		return nil
	}

	var out []*models.Opportunity
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if len(text) <= p.cfg.MinTitleLen {
			return
		}
		lower := strings.ToLower(text)
		if !containsAny(lower, p.cfg.FundingKeywords) {
			return
		}
		href, _ := sel.Attr("href")
		link := resolveLink(page.URL, href)

		issuer, sourceName := classifyIssuer(page.URL, "", profile)
		defMin, defMax := p.cfg.DefaultAmountMin, p.cfg.DefaultAmountMax
		if profile != nil {
			if profile.DefaultAmountMin > 0 {
				defMin = profile.DefaultAmountMin
			}
			if profile.DefaultAmountMax > 0 {
				defMax = profile.DefaultAmountMax
			}
		}

		out = append(out, &models.Opportunity{
			ID:             uuid.New(),
			Title:          text,
			SourceName:     sourceName,
			SourceURL:      link,
			IssuerType:     issuer,
			Sectors:        classifySectors(text, "", profile),
			Description:    text,
			AmountMin:      defMin,
			AmountMax:      defMax,
			Provenance:     models.ProvenanceLinkFallback,
			ExtractionDate: p.clock(),
		})
	})
	return out
}

func resolveLink(base, href string) string {
	if href == "" {
		return base
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		if i := strings.Index(base, "://"); i >= 0 {
			if j := strings.Index(base[i+3:], "/"); j >= 0 {
				return base[:i+3+j] + href
			}
		}
		return strings.TrimRight(base, "/") + href
	}
	return strings.TrimRight(base, "/") + "/" + href
}
