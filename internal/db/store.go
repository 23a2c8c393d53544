package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davide/bandi-radar/internal/models"
)

// Store persists opportunities, clients and match scores. It implements
// the match engine's persistence boundary.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const opportunityCols = `id, title, source_name, source_url, issuer_type, sectors,
	description, full_description, deadline, deadline_raw,
	amount_min, amount_max, amount_raw, requirements, submission_mode,
	provenance, extraction_date`

// SaveOpportunity upserts by fingerprint with keep-first semantics: an
// existing row keeps its identity and any already-populated fields; the
// new extraction only fills in blanks. A nil deadline is stored as the
// far-future sentinel so deadline ordering stays total.
func (s *Store) SaveOpportunity(ctx context.Context, opp *models.Opportunity) error {
	deadline := models.DeadlineSentinel
	if opp.Deadline != nil {
		deadline = *opp.Deadline
	}

	query := `
		INSERT INTO opportunities (
			id, title, source_name, source_url, issuer_type, sectors,
			description, full_description, deadline, deadline_raw,
			amount_min, amount_max, amount_raw, requirements, submission_mode,
			provenance, fingerprint, extraction_date
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18
		)
		ON CONFLICT (fingerprint) DO UPDATE SET
			updated_at = NOW(),
			description = COALESCE(NULLIF(opportunities.description, ''), EXCLUDED.description),
			full_description = COALESCE(NULLIF(opportunities.full_description, ''), EXCLUDED.full_description),
			deadline_raw = COALESCE(NULLIF(opportunities.deadline_raw, ''), EXCLUDED.deadline_raw),
			amount_raw = COALESCE(NULLIF(opportunities.amount_raw, ''), EXCLUDED.amount_raw),
			requirements = COALESCE(NULLIF(opportunities.requirements, ''), EXCLUDED.requirements),
			submission_mode = COALESCE(NULLIF(opportunities.submission_mode, ''), EXCLUDED.submission_mode),
			amount_min = COALESCE(NULLIF(opportunities.amount_min, 0), EXCLUDED.amount_min),
			amount_max = COALESCE(NULLIF(opportunities.amount_max, 0), EXCLUDED.amount_max),
			deadline = LEAST(opportunities.deadline, EXCLUDED.deadline)
	`

	_, err := s.pool.Exec(ctx, query,
		opp.ID,
		opp.Title,
		opp.SourceName,
		opp.SourceURL,
		string(opp.IssuerType),
		opp.Sectors,
		opp.Description,
		opp.FullDescription,
		deadline,
		opp.DeadlineRaw,
		opp.AmountMin,
		opp.AmountMax,
		opp.AmountRaw,
		opp.Requirements,
		opp.SubmissionMode,
		string(opp.Provenance),
		opp.Fingerprint(),
		opp.ExtractionDate,
	)
	if err != nil {
		return fmt.Errorf("upsert opportunity %q: %w", opp.Title, err)
	}
	return nil
}

// SaveMatchScore inserts one match row; the (client, opportunity) unique
// constraint makes reruns idempotent. Returns true when a row was created.
func (s *Store) SaveMatchScore(ctx context.Context, score models.MatchScore) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO match_scores (client_id, opportunity_id, score, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, opportunity_id) DO NOTHING
	`, score.ClientID, score.OpportunityID, score.Score, score.ComputedAt)
	if err != nil {
		return false, fmt.Errorf("insert match score: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) HasMatches(ctx context.Context, opportunityID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM match_scores WHERE opportunity_id = $1)",
		opportunityID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check matches for %s: %w", opportunityID, err)
	}
	return exists, nil
}

// ListOpportunities returns records ordered by deadline, soonest first.
// Sentinel-deadline rows sort last by construction.
func (s *Store) ListOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+opportunityCols+" FROM opportunities ORDER BY deadline ASC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.Opportunity
	for rows.Next() {
		var o models.Opportunity
		var issuerType, provenance string
		var deadline time.Time
		err := rows.Scan(
			&o.ID, &o.Title, &o.SourceName, &o.SourceURL, &issuerType, &o.Sectors,
			&o.Description, &o.FullDescription, &deadline, &o.DeadlineRaw,
			&o.AmountMin, &o.AmountMax, &o.AmountRaw, &o.Requirements, &o.SubmissionMode,
			&provenance, &o.ExtractionDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		o.IssuerType = models.IssuerType(issuerType)
		o.Provenance = models.Provenance(provenance)
		if !deadline.Equal(models.DeadlineSentinel) {
			d := deadline
			o.Deadline = &d
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListClients(ctx context.Context) ([]models.ClientProfile, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, sector, sector_interests, region, revenue, employee_count FROM clients")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []models.ClientProfile
	for rows.Next() {
		var c models.ClientProfile
		if err := rows.Scan(&c.ID, &c.Name, &c.Sector, &c.SectorInterests, &c.Region, &c.Revenue, &c.EmployeeCount); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MatchRow is a match score joined with display fields for reporting.
type MatchRow struct {
	models.MatchScore
	ClientName       string `json:"client_name"`
	OpportunityTitle string `json:"opportunity_title"`
}

func (s *Store) ListMatches(ctx context.Context, limit int) ([]MatchRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT m.client_id, m.opportunity_id, m.score, m.computed_at, c.name, o.title
		FROM match_scores m
		JOIN clients c ON c.id = m.client_id
		JOIN opportunities o ON o.id = m.opportunity_id
		ORDER BY m.score DESC, m.computed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var r MatchRow
		if err := rows.Scan(&r.ClientID, &r.OpportunityID, &r.Score, &r.ComputedAt, &r.ClientName, &r.OpportunityTitle); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountOpportunities and CountMatches feed the stats endpoint.
func (s *Store) CountOpportunities(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities").Scan(&n)
	return n, err
}

func (s *Store) CountMatches(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM match_scores").Scan(&n)
	return n, err
}
