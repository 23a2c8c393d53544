package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// titleStrategy is one attempt at pulling a title out of a page. Strategies
// run in order; the first result longer than the plausibility threshold wins.
type titleStrategy func(doc *goquery.Document, text string) string

// titleStrategies builds the ordered chain for a page: site-specific
// containers, first- and second-level headings, title-ish class names, then
// the first words of the stripped text.
func (p *Pipeline) titleStrategies(profile *SourceProfile) []titleStrategy {
	chain := []titleStrategy{}

	if profile != nil {
		for _, sel := range profile.TitleSelectors {
			selector := sel
			chain = append(chain, func(doc *goquery.Document, _ string) string {
				return doc.Find(selector).First().Text()
			})
		}
	}

	chain = append(chain,
		func(doc *goquery.Document, _ string) string {
			return doc.Find("h1").First().Text()
		},
		func(doc *goquery.Document, _ string) string {
			return doc.Find("h2").First().Text()
		},
		func(doc *goquery.Document, _ string) string {
			return doc.Find(`[class*="title"], [class*="titolo"], [id*="title"], [id*="titolo"]`).First().Text()
		},
		func(_ *goquery.Document, text string) string {
			return firstWords(text, 8, 3)
		},
	)

	return chain
}

func (p *Pipeline) extractTitle(doc *goquery.Document, text string, profile *SourceProfile) string {
	for _, strategy := range p.titleStrategies(profile) {
		candidate := cleanText(stripMarkupIfNeeded(strategy(doc, text)))
		if len(candidate) > p.cfg.MinTitleLen {
			return candidate
		}
	}
	return ""
}

// stripMarkupIfNeeded guards against selectors that return nested markup.
func stripMarkupIfNeeded(s string) string {
	for _, r := range s {
		if r == '<' {
			return stripMarkup(s)
		}
	}
	return s
}
