package extract

import (
	"embed"
	"net/url"
	"os"
	"strings"

	"github.com/davide/bandi-radar/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// SourceProfile describes one known issuing body: how to recognize its pages,
// which selectors hold title/content, and the defaults applied when
// extraction comes up empty.
type SourceProfile struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Domains    []string          `yaml:"domains"`
	IssuerType models.IssuerType `yaml:"issuer_type"`

	// URL path fragments that reliably mark opportunity pages on this source
	// (classification is forced true when one matches).
	PathHints []string `yaml:"path_hints,omitempty"`

	TitleSelectors   []string `yaml:"title_selectors,omitempty"`
	ContentSelectors []string `yaml:"content_selectors,omitempty"`

	DefaultAmountMin float64 `yaml:"default_amount_min,omitempty"`
	DefaultAmountMax float64 `yaml:"default_amount_max,omitempty"`

	// FallbackLinks marks sources whose detail pages are hard to parse; when
	// the primary pass yields nothing for them, listing-page links are
	// scraped into minimal records instead of returning an empty batch.
	FallbackLinks bool `yaml:"fallback_links,omitempty"`

	ExtraSectors []string `yaml:"extra_sectors,omitempty"`
}

// Registry holds the curated issuing-body profiles.
type Registry struct {
	Sources []SourceProfile `yaml:"sources"`
}

// LoadRegistry reads the embedded sources.yaml, with a filesystem fallback
// for local development. Environment variables in the YAML are expanded.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Match returns the profile whose domain matches the page URL, or nil.
func (r *Registry) Match(pageURL string) *SourceProfile {
	if r == nil {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	for i := range r.Sources {
		for _, domain := range r.Sources[i].Domains {
			d := strings.ToLower(domain)
			if host == d || strings.HasSuffix(host, "."+d) {
				return &r.Sources[i]
			}
		}
	}
	return nil
}

// PathHintMatches reports whether the URL path contains one of the profile's
// opportunity path fragments.
func (p *SourceProfile) PathHintMatches(pageURL string) bool {
	if p == nil || len(p.PathHints) == 0 {
		return false
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, hint := range p.PathHints {
		if strings.Contains(path, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}
