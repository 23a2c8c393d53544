package models

import "testing"

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		a, b Opportunity
		same bool
	}{
		{
			name: "case and whitespace variants collide",
			a:    Opportunity{Title: "Bando X", SourceName: "MIMIT"},
			b:    Opportunity{Title: "  bando   x ", SourceName: "mimit"},
			same: true,
		},
		{
			name: "different titles differ",
			a:    Opportunity{Title: "Bando X", SourceName: "MIMIT"},
			b:    Opportunity{Title: "Bando Y", SourceName: "MIMIT"},
			same: false,
		},
		{
			name: "same title from different sources differ",
			a:    Opportunity{Title: "Bando X", SourceName: "MIMIT"},
			b:    Opportunity{Title: "Bando X", SourceName: "Regione Lombardia"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Fingerprint() == tt.b.Fingerprint(); got != tt.same {
				t.Errorf("fingerprints %q vs %q, same=%v, want %v",
					tt.a.Fingerprint(), tt.b.Fingerprint(), got, tt.same)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Bando\t Innovazione  Digitale "); got != "bando innovazione digitale" {
		t.Errorf("NormalizeKey() = %q", got)
	}
}
