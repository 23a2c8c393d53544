package extract

import (
	"net/url"
	"strings"

	"github.com/davide/bandi-radar/internal/models"
)

var italianRegions = []string{
	"Abruzzo", "Basilicata", "Calabria", "Campania", "Emilia-Romagna",
	"Friuli Venezia Giulia", "Lazio", "Liguria", "Lombardia", "Marche",
	"Molise", "Piemonte", "Puglia", "Sardegna", "Sicilia", "Toscana",
	"Trentino-Alto Adige", "Umbria", "Valle d'Aosta", "Veneto",
}

// ministryDomains maps national-government hosts to display names.
var ministryDomains = map[string]string{
	"mimit.gov.it":         "Ministero delle Imprese e del Made in Italy",
	"mise.gov.it":          "Ministero delle Imprese e del Made in Italy",
	"mur.gov.it":           "Ministero dell'Università e della Ricerca",
	"invitalia.it":         "Invitalia",
	"lavoro.gov.it":        "Ministero del Lavoro",
	"ambiente.gov.it":      "Ministero dell'Ambiente",
	"politicheagricole.it": "Ministero dell'Agricoltura",
}

var europeanTerms = []string{"horizon europe", "commissione europea", "european commission", "fondi europei diretti"}

// classifyIssuer determines the issuing body level and a display name for
// the source. A registry profile pins both; otherwise the URL host and
// page content are inspected in european -> national -> regional order.
func classifyIssuer(pageURL, content string, profile *SourceProfile) (models.IssuerType, string) {
	if profile != nil {
		return profile.IssuerType, profile.Name
	}

	host := hostOf(pageURL)
	lower := strings.ToLower(content)

	if strings.HasSuffix(host, "europa.eu") || containsAny(lower, europeanTerms) {
		return models.IssuerEuropean, "European Union"
	}

	for domain, name := range ministryDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return models.IssuerNational, name
		}
	}
	if strings.Contains(lower, "minister") || strings.Contains(lower, "pnrr") {
		return models.IssuerNational, displayDomain(host)
	}

	if strings.Contains(lower, "regione") || strings.Contains(host, "regione") {
		for _, region := range italianRegions {
			if strings.Contains(lower, strings.ToLower(region)) ||
				strings.Contains(host, normalizedRegionHost(region)) {
				return models.IssuerRegional, "Regione " + region
			}
		}
		return models.IssuerRegional, displayDomain(host)
	}

	return models.IssuerOther, displayDomain(host)
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(u.Host, "www."))
}

// normalizedRegionHost lowers and strips the characters regions drop from
// their domains ("Valle d'Aosta" -> "valledaosta").
func normalizedRegionHost(region string) string {
	s := strings.ToLower(region)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

func displayDomain(host string) string {
	if host == "" {
		return "unknown"
	}
	return host
}
