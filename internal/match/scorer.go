package match

import (
	"math"
	"strings"

	"github.com/davide/bandi-radar/internal/models"
)

// Score computes the 0–100 compatibility between a client and an
// opportunity. Each factor joins the denominator only when both sides
// carry the fields it needs, so scores stay comparable across records
// with missing data.
func Score(client models.ClientProfile, opp *models.Opportunity, cfg Config) int {
	var earned, applicable float64

	if client.Sector != "" && len(opp.Sectors) > 0 {
		applicable += cfg.SectorWeight
		earned += sectorPoints(client, opp, cfg)
	}

	if client.Region != "" && opp.IssuerType != "" {
		applicable += cfg.RegionWeight
		earned += regionPoints(client, opp, cfg)
	}

	if client.Revenue > 0 && client.EmployeeCount > 0 && opp.Requirements != "" {
		applicable += cfg.SizeWeight
		if sizeMatches(client, opp.Requirements) {
			earned += cfg.SizeWeight
		}
	}

	if client.Revenue > 0 && opp.AmountMax > 0 {
		applicable += cfg.AmountWeight
		if opp.AmountMax >= amountThreshold(client.Revenue) {
			earned += cfg.AmountWeight
		}
	}

	if applicable == 0 {
		return 0
	}
	score := int(math.Round(earned / applicable * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// sectorPoints awards full weight on a direct match between the client's
// primary sector and any opportunity sector (substring in either
// direction), reduced credit on an interest-set overlap, zero otherwise.
func sectorPoints(client models.ClientProfile, opp *models.Opportunity, cfg Config) float64 {
	clientSector := strings.ToLower(client.Sector)
	for _, s := range opp.Sectors {
		if sectorsOverlap(clientSector, strings.ToLower(s)) {
			return cfg.SectorWeight
		}
	}
	for _, interest := range client.SectorInterests {
		li := strings.ToLower(interest)
		for _, s := range opp.Sectors {
			if sectorsOverlap(li, strings.ToLower(s)) {
				return cfg.SectorInterestCredit
			}
		}
	}
	return 0
}

func sectorsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// regionPoints handles the geographic gate. Regional calls that never
// mention the client's region score negative, not zero: an out-of-region
// bando is actively unusable, which is worse than unknown.
func regionPoints(client models.ClientProfile, opp *models.Opportunity, cfg Config) float64 {
	switch opp.IssuerType {
	case models.IssuerRegional:
		if containsFold(opp.Requirements, client.Region) ||
			containsFold(opp.SourceName, client.Region) {
			return cfg.RegionWeight
		}
		return -cfg.RegionPenalty
	case models.IssuerNational, models.IssuerEuropean:
		return cfg.RegionFlatCredit
	default:
		return 0
	}
}

// Size-bucket terminology as it appears in Italian call texts.
var sizeTerms = map[string][]string{
	"small":  {"pmi", "piccole e medie imprese", "piccole imprese", "piccola impresa", "microimpres"},
	"medium": {"pmi", "piccole e medie imprese", "medie imprese", "media impresa"},
	"large":  {"grandi imprese", "grande impresa", "grande dimensione"},
}

// sizeBucket infers a coarse company size from revenue (EUR) and
// headcount, using the EU SME boundaries.
func sizeBucket(revenue float64, employees int) string {
	switch {
	case revenue < 10_000_000 && employees < 50:
		return "small"
	case revenue < 50_000_000 && employees < 250:
		return "medium"
	default:
		return "large"
	}
}

func sizeMatches(client models.ClientProfile, requirements string) bool {
	lower := strings.ToLower(requirements)
	for _, term := range sizeTerms[sizeBucket(client.Revenue, client.EmployeeCount)] {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// amountThreshold scales the minimum relevant opportunity ceiling with
// client revenue: a grant too small to matter at the client's size does
// not earn the funding-magnitude factor.
func amountThreshold(revenue float64) float64 {
	switch {
	case revenue < 2_000_000:
		return 10_000
	case revenue < 10_000_000:
		return 50_000
	case revenue < 50_000_000:
		return 250_000
	default:
		return 1_000_000
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
