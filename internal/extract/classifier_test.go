package extract

import (
	"strings"
	"testing"

	"github.com/davide/bandi-radar/internal/crawl"
)

func TestClassify(t *testing.T) {
	registry := &Registry{Sources: []SourceProfile{
		{
			ID:        "mimit",
			Name:      "MIMIT",
			Domains:   []string{"mimit.gov.it"},
			PathHints: []string{"/incentivi/"},
		},
	}}
	classifier := NewClassifier(DefaultConfig(), registry)

	tests := []struct {
		name       string
		page       crawl.CrawledPage
		want       bool
		wantReason string
	}{
		{
			name: "funding page with three distinct keywords",
			page: crawl.CrawledPage{
				URL:     "https://example.it/news/1",
				Content: "Scadenza 30/06/2025. Contributo € 500.000 a fondo perduto per PMI del settore agricolo.",
			},
			want:       true,
			wantReason: "keyword_hits",
		},
		{
			name:       "empty content is ignored",
			page:       crawl.CrawledPage{URL: "https://example.it/empty", Content: "   "},
			want:       false,
			wantReason: "empty_content",
		},
		{
			name: "known source path skips keyword check",
			page: crawl.CrawledPage{
				URL:     "https://www.mimit.gov.it/incentivi/nuova-sabatini",
				Content: "pagina quasi vuota",
			},
			want:       true,
			wantReason: "source_path_override",
		},
		{
			name: "deadline plus currency plus beneficiary rescues low keyword count",
			page: crawl.CrawledPage{
				URL:     "https://example.it/news/2",
				Content: "Le domande vanno presentate entro il 31/12/2025. Dotazione di 3 milioni di euro riservata alle imprese lombarde.",
			},
			want:       true,
			wantReason: "deadline_currency_beneficiary",
		},
		{
			name: "generic news page is rejected",
			page: crawl.CrawledPage{
				URL:     "https://example.it/news/3",
				Content: "Il consiglio comunale ha approvato il nuovo piano urbanistico della città.",
			},
			want:       false,
			wantReason: "insufficient_signals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := classifier.Classify(tt.page)
			if got != tt.want {
				t.Fatalf("Classify() = %v (%s), want %v", got, reason, tt.want)
			}
			if !strings.HasPrefix(reason, tt.wantReason) {
				t.Errorf("reason = %q, want prefix %q", reason, tt.wantReason)
			}
		})
	}
}
