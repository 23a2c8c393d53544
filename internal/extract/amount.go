package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Italian-formatted number: thousands separated by dots, optional comma
// decimals, e.g. 500.000 or 1.500.000,50.
const numPattern = `\d{1,3}(?:\.\d{3})*(?:,\d+)?|\d+(?:,\d+)?`

// The "€" alternative carries no trailing \b: the symbol is a non-word
// character, so a boundary after it would require a word character next,
// which never follows "750.000 €" in running text.
var (
	euroPrefixRe = regexp.MustCompile(`€\s*(` + numPattern + `)`)
	euroSuffixRe = regexp.MustCompile(`(` + numPattern + `)\s*(?:€|euro\b|eur\b)`)
	millionRe    = regexp.MustCompile(`(` + numPattern + `)\s*(?:milioni|mln)\b`)
	billionRe    = regexp.MustCompile(`(` + numPattern + `)\s*(?:miliardi|mld)\b`)

	// magnitudeAfterRe recognizes "€ 2 milioni": the magnitude family owns
	// that number, so the bare currency-prefixed "2" must not enter the set.
	magnitudeAfterRe = regexp.MustCompile(`^\s*(?:milioni|mln|miliardi|mld)\b`)
)

// compileFinancialRes builds one regex per financial keyword, matching a
// number within 40 non-digit characters of it.
func compileFinancialRes(keywords []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		res = append(res, regexp.MustCompile(regexp.QuoteMeta(kw)+`\D{0,40}?(`+numPattern+`)`))
	}
	return res
}

type amountMatch struct {
	value float64
	raw   string
}

// extractAmounts scans text for monetary figures and derives the funding
// range. Explicit currency matches are always accepted; bare numbers near
// financial keywords must exceed MinPlainAmount to filter out years and
// article numbers.
func (p *Pipeline) extractAmounts(text string, profile *SourceProfile) (min, max float64, raw string) {
	lower := strings.ToLower(text)
	var matches []amountMatch

	collect := func(re *regexp.Regexp, multiplier float64) {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			v, err := parseItalianNumber(m[1])
			if err != nil {
				continue
			}
			matches = append(matches, amountMatch{value: v * multiplier, raw: strings.TrimSpace(m[0])})
		}
	}

	collect(billionRe, 1e9)
	collect(millionRe, 1e6)
	for _, m := range euroPrefixRe.FindAllStringSubmatchIndex(lower, -1) {
		if magnitudeAfterRe.MatchString(lower[m[3]:]) {
			continue
		}
		v, err := parseItalianNumber(lower[m[2]:m[3]])
		if err != nil {
			continue
		}
		matches = append(matches, amountMatch{value: v, raw: strings.TrimSpace(lower[m[0]:m[1]])})
	}
	collect(euroSuffixRe, 1)

	// Bare numbers within reach of a financial keyword.
	for _, kwRe := range p.financialRes {
		for _, m := range kwRe.FindAllStringSubmatch(lower, -1) {
			v, err := parseItalianNumber(m[1])
			if err != nil || v <= p.cfg.MinPlainAmount {
				continue
			}
			matches = append(matches, amountMatch{value: v, raw: strings.TrimSpace(m[0])})
		}
	}

	defMin, defMax := p.cfg.DefaultAmountMin, p.cfg.DefaultAmountMax
	if profile != nil {
		if profile.DefaultAmountMin > 0 {
			defMin = profile.DefaultAmountMin
		}
		if profile.DefaultAmountMax > 0 {
			defMax = profile.DefaultAmountMax
		}
	}

	if len(matches) == 0 {
		return defMin, defMax, ""
	}

	raw = matches[0].raw

	distinct := make([]float64, 0, len(matches))
	seen := make(map[float64]bool)
	for _, m := range matches {
		if !seen[m.value] {
			seen[m.value] = true
			distinct = append(distinct, m.value)
		}
	}
	sort.Float64s(distinct)

	max = distinct[len(distinct)-1]
	if len(distinct) >= 2 {
		min = distinct[0]
	} else {
		min = max / 5
		if defMin < min {
			min = defMin
		}
	}
	return min, max, raw
}

// parseItalianNumber converts "1.500.000,50" to 1500000.50.
func parseItalianNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
