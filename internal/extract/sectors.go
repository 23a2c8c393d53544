package extract

import (
	"strings"

	"github.com/davide/bandi-radar/internal/models"
)

// sectorRule maps a category label to the keyword prefixes that signal it.
// Prefix matching covers Italian inflections (agricolo, agricoltura, ...).
type sectorRule struct {
	label    string
	prefixes []string
}

var sectorRules = []sectorRule{
	{"Agricoltura", []string{"agricol", "agroaliment", "rurale", "coltiv"}},
	{"Tecnologia", []string{"tecnolog", "digital", "innovazion", "software", "ict", "intelligenza artificiale"}},
	{"Energia", []string{"energi", "rinnovabil", "fotovoltai", "efficienza energetica"}},
	{"Turismo", []string{"turis", "ricettiv", "alberghier"}},
	{"Manifattura", []string{"manifattur", "industria 4", "produzion"}},
	{"Sanità", []string{"sanit", "salute", "medical", "farmaceutic"}},
	{"Formazione", []string{"formazion", "istruzion", "competenz", "ricerca"}},
	{"Startup", []string{"startup", "start-up", "nuove imprese", "imprenditoria giovanile"}},
	{"Ambiente", []string{"ambient", "sostenibil", "economia circolare", "green"}},
	{"Commercio", []string{"commerc", "export", "internazionalizzazion"}},
}

// classifySectors derives the multi-label sector set from title and
// content, merged with any sectors pinned by the source profile. Returns
// ["Altro"] when nothing matches.
func classifySectors(title, content string, profile *SourceProfile) []string {
	haystack := strings.ToLower(title + " " + content)

	var out []string
	seen := make(map[string]bool)
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}

	for _, rule := range sectorRules {
		for _, prefix := range rule.prefixes {
			if strings.Contains(haystack, prefix) {
				add(rule.label)
				break
			}
		}
	}
	if profile != nil {
		for _, s := range profile.ExtraSectors {
			add(s)
		}
	}

	if len(out) == 0 {
		return []string{models.SectorOther}
	}
	return out
}
