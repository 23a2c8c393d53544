package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractDescription tries the source's known content containers first, then
// falls back to joining the first sentence-like segments of the stripped
// text, then to a raw prefix of the page.
func (p *Pipeline) extractDescription(doc *goquery.Document, text string, profile *SourceProfile) string {
	if profile != nil {
		for _, sel := range profile.ContentSelectors {
			candidate := cleanText(doc.Find(sel).First().Text())
			if len(candidate) > p.cfg.MinSentenceLen {
				return truncateText(candidate, p.cfg.MaxDescriptionLen)
			}
		}
	}

	segs := sentences(text, p.cfg.MinSentenceLen)
	if len(segs) > 0 {
		if len(segs) > p.cfg.DescSentences {
			segs = segs[:p.cfg.DescSentences]
		}
		return truncateText(strings.Join(segs, " "), p.cfg.MaxDescriptionLen)
	}

	return truncateText(text, 303)
}

// requirementKeywords anchor the free-text eligibility extraction.
var requirementKeywords = []string{
	"soggetti ammissibili", "beneficiari", "requisiti", "possono presentare domanda",
	"destinatari",
}

// extractRequirements returns the text window following the first
// eligibility keyword, if any. The scoring engine later matches client size
// and region terms against it.
func extractRequirements(text string, window int) string {
	lower := strings.ToLower(text)
	for _, kw := range requirementKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		end := idx + len(kw) + window
		if end > len(text) {
			end = len(text)
		}
		return cleanText(text[idx:end])
	}
	return ""
}

var submissionKeywords = []string{
	"modalità di presentazione", "presentazione delle domande", "sportello telematico",
	"piattaforma telematica", "domanda online",
}

// extractSubmissionMode captures how applications are filed, when stated.
func extractSubmissionMode(text string, window int) string {
	lower := strings.ToLower(text)
	for _, kw := range submissionKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		end := idx + len(kw) + window
		if end > len(text) {
			end = len(text)
		}
		return cleanText(text[idx:end])
	}
	return ""
}
