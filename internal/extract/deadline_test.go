package extract

import (
	"testing"
	"time"
)

func TestExtractDeadline(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		name    string
		text    string
		want    *time.Time
		wantRaw string
	}{
		{
			name:    "slash separated near scadenza",
			text:    "presentazione delle domande con scadenza 30/06/2025 tramite sportello",
			want:    date(2025, time.June, 30),
			wantRaw: "30/06/2025",
		},
		{
			name:    "dash separated near termine",
			text:    "il termine ultimo è fissato al 30-06-2025",
			want:    date(2025, time.June, 30),
			wantRaw: "30-06-2025",
		},
		{
			name:    "dot separated with two digit year",
			text:    "le domande vanno inviate entro il 30.06.25",
			want:    date(2025, time.June, 30),
			wantRaw: "30.06.25",
		},
		{
			name:    "italian month name",
			text:    "la piattaforma chiude, domande entro il 12 marzo 2025",
			want:    date(2025, time.March, 12),
			wantRaw: "12 marzo 2025",
		},
		{
			name: "day out of range is rejected",
			text: "scadenza 32/06/2025",
			want: nil,
		},
		{
			name: "month out of range is rejected",
			text: "scadenza 30/13/2025",
			want: nil,
		},
		{
			name: "calendar overflow is rejected",
			text: "scadenza 31/02/2025",
			want: nil,
		},
		{
			name:    "no keyword falls back to first future date",
			text:    "pubblicato il 01/01/2020, le agevolazioni si chiudono il 15/10/2030",
			want:    date(2030, time.October, 15),
			wantRaw: "15/10/2030",
		},
		{
			name: "no keyword and only past dates yields nothing",
			text: "pubblicato il 01/01/2020, aggiornato il 05/03/2021",
			want: nil,
		},
		{
			name: "no date at all",
			text: "contributo a fondo perduto per le imprese",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, raw := p.extractDeadline(tt.text, now)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("extractDeadline() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("extractDeadline() = nil, want %v", tt.want)
			}
			if !got.Equal(*tt.want) {
				t.Errorf("deadline = %v, want %v", got, tt.want)
			}
			if raw != tt.wantRaw {
				t.Errorf("raw = %q, want %q", raw, tt.wantRaw)
			}
		})
	}
}

func TestBuildDateNormalizesTwoDigitYears(t *testing.T) {
	d, ok := buildDate(1, 7, 26)
	if !ok {
		t.Fatal("buildDate rejected a valid date")
	}
	if d.Year() != 2026 {
		t.Errorf("year = %d, want 2026", d.Year())
	}
}
