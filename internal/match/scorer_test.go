package match

import (
	"testing"

	"github.com/google/uuid"

	"github.com/davide/bandi-radar/internal/models"
)

func TestScore(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		client models.ClientProfile
		opp    models.Opportunity
		want   int
	}{
		{
			name:   "sector match with national credit",
			client: models.ClientProfile{Sector: "Tecnologia", Region: "Lombardia"},
			opp: models.Opportunity{
				Sectors:    []string{"Tecnologia", "Startup"},
				IssuerType: models.IssuerNational,
			},
			// earned 40 + 20 over applicable 70
			want: 86,
		},
		{
			name:   "regional mismatch penalty",
			client: models.ClientProfile{Sector: "Tecnologia", Region: "Lombardia"},
			opp: models.Opportunity{
				Sectors:      []string{"Tecnologia"},
				IssuerType:   models.IssuerRegional,
				Requirements: "imprese con sede operativa in Veneto",
			},
			// earned 40 - 20 over applicable 70
			want: 29,
		},
		{
			name:   "regional match earns full geographic weight",
			client: models.ClientProfile{Sector: "Tecnologia", Region: "Lombardia"},
			opp: models.Opportunity{
				Sectors:      []string{"Tecnologia"},
				IssuerType:   models.IssuerRegional,
				Requirements: "imprese con sede operativa in Lombardia",
			},
			want: 100,
		},
		{
			name:   "interest overlap earns reduced sector credit",
			client: models.ClientProfile{Sector: "Commercio", SectorInterests: []string{"Turismo"}, Region: "Lazio"},
			opp: models.Opportunity{
				Sectors:    []string{"Turismo"},
				IssuerType: models.IssuerEuropean,
			},
			// earned 25 + 20 over applicable 70
			want: 64,
		},
		{
			name: "all four factors applicable and earned",
			client: models.ClientProfile{
				Sector: "Tecnologia", Region: "Lombardia",
				Revenue: 5_000_000, EmployeeCount: 20,
			},
			opp: models.Opportunity{
				Sectors:      []string{"Tecnologia"},
				IssuerType:   models.IssuerNational,
				Requirements: "riservato alle PMI italiane",
				AmountMax:    500000,
			},
			// earned 40+20+20+10 over applicable 100
			want: 90,
		},
		{
			name: "large company does not match SME terminology",
			client: models.ClientProfile{
				Sector: "Manifattura", Region: "Piemonte",
				Revenue: 80_000_000, EmployeeCount: 400,
			},
			opp: models.Opportunity{
				Sectors:      []string{"Manifattura"},
				IssuerType:   models.IssuerNational,
				Requirements: "riservato alle PMI italiane",
				AmountMax:    2_000_000,
			},
			// earned 40+20+0+10 over applicable 100
			want: 70,
		},
		{
			name: "small opportunity is irrelevant to large revenue",
			client: models.ClientProfile{
				Sector: "Tecnologia", Region: "Lazio", Revenue: 60_000_000,
			},
			opp: models.Opportunity{
				Sectors:    []string{"Tecnologia"},
				IssuerType: models.IssuerNational,
				AmountMax:  50_000,
			},
			// earned 40+20+0 over applicable 80
			want: 75,
		},
		{
			name:   "nothing applicable scores zero",
			client: models.ClientProfile{},
			opp:    models.Opportunity{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.client, &tt.opp, cfg)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("score %d out of [0,100]", got)
			}
		})
	}
}

// Adding a sector that matches the client must never lower the score.
func TestScoreSectorMonotonicity(t *testing.T) {
	cfg := DefaultConfig()
	client := models.ClientProfile{ID: uuid.New(), Sector: "Energia", Region: "Puglia"}

	base := models.Opportunity{
		Sectors:    []string{"Turismo"},
		IssuerType: models.IssuerNational,
	}
	before := Score(client, &base, cfg)

	augmented := base
	augmented.Sectors = append([]string{}, base.Sectors...)
	augmented.Sectors = append(augmented.Sectors, "Energia")
	after := Score(client, &augmented, cfg)

	if after < before {
		t.Errorf("score dropped from %d to %d after adding a matching sector", before, after)
	}
}

func TestSizeBucket(t *testing.T) {
	tests := []struct {
		revenue   float64
		employees int
		want      string
	}{
		{1_000_000, 10, "small"},
		{9_000_000, 49, "small"},
		{9_000_000, 60, "medium"},
		{30_000_000, 100, "medium"},
		{60_000_000, 100, "large"},
		{30_000_000, 300, "large"},
	}
	for _, tt := range tests {
		if got := sizeBucket(tt.revenue, tt.employees); got != tt.want {
			t.Errorf("sizeBucket(%v, %d) = %s, want %s", tt.revenue, tt.employees, got, tt.want)
		}
	}
}

func TestAmountThreshold(t *testing.T) {
	tests := []struct {
		revenue float64
		want    float64
	}{
		{1_000_000, 10_000},
		{5_000_000, 50_000},
		{20_000_000, 250_000},
		{100_000_000, 1_000_000},
	}
	for _, tt := range tests {
		if got := amountThreshold(tt.revenue); got != tt.want {
			t.Errorf("amountThreshold(%v) = %v, want %v", tt.revenue, got, tt.want)
		}
	}
}
