package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchScore is a derived compatibility fact between a client and an
// opportunity. It may be recomputed at any time and is never the source of
// truth for either side. Score is always within [0, 100].
type MatchScore struct {
	ClientID      uuid.UUID `json:"client_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Score         int       `json:"score"`
	ComputedAt    time.Time `json:"computed_at"`
}
