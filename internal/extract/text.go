package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.UGCPolicy()

// cleanText collapses whitespace, newlines and tabs and trims the string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripMarkup converts markup to plain text and normalizes whitespace.
func stripMarkup(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(html)
	}
	doc.Find("script, style, noscript").Remove()
	return cleanText(doc.Text())
}

// sanitizeHTML strips unsafe tags and attributes before markup is stored as
// a full description.
func sanitizeHTML(s string) string {
	return htmlPolicy.Sanitize(sanitizeUTF8(s))
}

// sanitizeUTF8 removes invalid byte sequences that break persistence.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// truncateText cuts a string to max byte length, appending ellipsis if
// truncated. The cut is pulled back to a rune boundary so multi-byte
// characters (à, è, ò) are never split into invalid UTF-8.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	if maxLen > 3 {
		cut = maxLen - 3
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if maxLen > 3 {
		return text[:cut] + "..."
	}
	return text[:cut]
}

// sentences splits stripped text into sentence-like segments, keeping only
// those longer than minLen.
func sentences(text string, minLen int) []string {
	var out []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if len(s) > minLen {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); len(s) > minLen {
		out = append(out, s)
	}
	return out
}

// firstWords returns the first count words longer than minWordLen.
func firstWords(text string, count, minWordLen int) string {
	var picked []string
	for _, w := range strings.Fields(text) {
		if len(w) > minWordLen {
			picked = append(picked, w)
			if len(picked) == count {
				break
			}
		}
	}
	return strings.Join(picked, " ")
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// keywordWindow yields the window characters following every occurrence of
// keyword in text (which callers pass already lower-cased).
func keywordWindows(text, keyword string, window int) []string {
	var out []string
	for start := 0; ; {
		idx := strings.Index(text[start:], keyword)
		if idx < 0 {
			break
		}
		from := start + idx + len(keyword)
		to := from + window
		if to > len(text) {
			to = len(text)
		}
		out = append(out, text[from:to])
		start = from
	}
	return out
}
