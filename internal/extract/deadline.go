package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericDateRe matches day/month/year dates with /, - or . separators
// and either 2- or 4-digit years, e.g. 30/06/2025, 30-06-25, 30.06.2025.
var numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`)

// namedDateRe matches Italian written dates such as "12 marzo 2025".
var namedDateRe = regexp.MustCompile(`\b(\d{1,2})[°º]?\s+(gennaio|febbraio|marzo|aprile|maggio|giugno|luglio|agosto|settembre|ottobre|novembre|dicembre)\s+(\d{4})\b`)

var italianMonths = map[string]time.Month{
	"gennaio":   time.January,
	"febbraio":  time.February,
	"marzo":     time.March,
	"aprile":    time.April,
	"maggio":    time.May,
	"giugno":    time.June,
	"luglio":    time.July,
	"agosto":    time.August,
	"settembre": time.September,
	"ottobre":   time.October,
	"novembre":  time.November,
	"dicembre":  time.December,
}

// extractDeadline finds the submission deadline in page text. It first
// scans windows around deadline keywords, then falls back to the first
// strictly future date anywhere in the document. Returns the parsed date
// at midnight UTC plus the raw matched string, or (nil, "").
func (p *Pipeline) extractDeadline(text string, now time.Time) (*time.Time, string) {
	lower := strings.ToLower(text)

	for _, kw := range p.cfg.DeadlineKeywords {
		for _, window := range keywordWindows(lower, kw, p.cfg.DeadlineWindow) {
			if d, raw := firstDate(window, time.Time{}); d != nil {
				return d, raw
			}
		}
	}

	// No keyword context: accept only dates after the extraction time to
	// avoid picking up publication dates.
	return firstDate(lower, now)
}

// firstDate returns the first parseable date in s strictly after the
// given cutoff. A zero cutoff accepts any valid date.
func firstDate(s string, after time.Time) (*time.Time, string) {
	type candidate struct {
		idx int
		d   time.Time
		raw string
	}
	var best *candidate

	for _, m := range numericDateRe.FindAllStringSubmatchIndex(s, -1) {
		raw := s[m[0]:m[1]]
		day, _ := strconv.Atoi(s[m[2]:m[3]])
		month, _ := strconv.Atoi(s[m[4]:m[5]])
		year, _ := strconv.Atoi(s[m[6]:m[7]])
		d, ok := buildDate(day, month, year)
		if !ok || !d.After(after) {
			continue
		}
		if best == nil || m[0] < best.idx {
			best = &candidate{idx: m[0], d: d, raw: raw}
		}
		break
	}

	for _, m := range namedDateRe.FindAllStringSubmatchIndex(s, -1) {
		if best != nil && m[0] >= best.idx {
			break
		}
		raw := s[m[0]:m[1]]
		day, _ := strconv.Atoi(s[m[2]:m[3]])
		month := italianMonths[s[m[4]:m[5]]]
		year, _ := strconv.Atoi(s[m[6]:m[7]])
		d, ok := buildDate(day, int(month), year)
		if !ok || !d.After(after) {
			continue
		}
		best = &candidate{idx: m[0], d: d, raw: raw}
		break
	}

	if best == nil {
		return nil, ""
	}
	return &best.d, best.raw
}

// buildDate validates components and normalizes to midnight UTC.
// Two-digit years are interpreted as 2000+yy.
func buildDate(day, month, year int) (time.Time, bool) {
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 2000 || year > 2100 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 -> 03/03); reject those.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}
