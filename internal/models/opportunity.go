package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IssuerType classifies the administrative level of the issuing body.
type IssuerType string

const (
	IssuerEuropean IssuerType = "european"
	IssuerNational IssuerType = "national"
	IssuerRegional IssuerType = "regional"
	IssuerOther    IssuerType = "other"
)

// Provenance distinguishes primary-pass extractions from low-confidence
// fallback records synthesized from listing-page links.
type Provenance string

const (
	ProvenancePage         Provenance = "page"
	ProvenanceLinkFallback Provenance = "link_fallback"
)

// SectorOther is the sentinel category used when no sector keyword matches.
const SectorOther = "Altro"

// DeadlineSentinel is the far-future date stored when a deadline could not be
// parsed. In-memory records keep Deadline nil; the sentinel is applied only at
// the persistence boundary.
var DeadlineSentinel = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

// Opportunity is one funding/grant program extracted from a crawled page.
// Records are never mutated after creation; re-extraction either produces a
// new record or is deduplicated against an existing one by fingerprint.
type Opportunity struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	SourceName      string     `json:"source_name"`
	SourceURL       string     `json:"source_url"`
	IssuerType      IssuerType `json:"issuer_type"`
	Sectors         []string   `json:"sectors"`
	Description     string     `json:"description"`
	FullDescription string     `json:"full_description,omitempty"`
	Deadline        *time.Time `json:"deadline"`
	DeadlineRaw     string     `json:"deadline_raw,omitempty"`
	AmountMin       float64    `json:"amount_min"`
	AmountMax       float64    `json:"amount_max"`
	AmountRaw       string     `json:"amount_raw,omitempty"`
	Requirements    string     `json:"requirements,omitempty"`
	SubmissionMode  string     `json:"submission_mode,omitempty"`
	Provenance      Provenance `json:"provenance"`
	ExtractionDate  time.Time  `json:"extraction_date"`
}

// Fingerprint identifies the logical opportunity across crawls: normalized
// title plus normalized source name. Two opportunities sharing a fingerprint
// are the same entity; the earlier-seen one wins.
func (o Opportunity) Fingerprint() string {
	return NormalizeKey(o.Title) + "|" + NormalizeKey(o.SourceName)
}

// NormalizeKey lower-cases, trims and collapses whitespace for fingerprinting.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
