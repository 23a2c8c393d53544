package match

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davide/bandi-radar/internal/models"
)

// Store is the persistence boundary the engine writes through. SaveMatchScore
// reports whether a new row was actually created, so idempotent reruns can be
// told apart from first writes.
type Store interface {
	SaveOpportunity(ctx context.Context, opp *models.Opportunity) error
	SaveMatchScore(ctx context.Context, score models.MatchScore) (bool, error)
	HasMatches(ctx context.Context, opportunityID uuid.UUID) (bool, error)
}

// Engine generates match records from clients and opportunities.
type Engine struct {
	store Store
	cfg   Config
	clock func() time.Time

	// Per-opportunity locks serialize incremental match generation so two
	// concurrent calls for the same opportunity cannot both pass the
	// HasMatches check. Entries are refcounted and removed once the last
	// holder releases, so the map does not grow with crawl history.
	mu    sync.Mutex
	locks map[uuid.UUID]*oppLock
}

type oppLock struct {
	mu   sync.Mutex
	refs int
}

func NewEngine(store Store, cfg Config) *Engine {
	return &Engine{
		store: store,
		cfg:   cfg,
		clock: time.Now,
		locks: make(map[uuid.UUID]*oppLock),
	}
}

// Result summarizes one generation run.
type Result struct {
	PairsScored int `json:"pairs_scored"`
	Created     int `json:"created"`
	BelowCutoff int `json:"below_cutoff"`
	Duplicates  int `json:"duplicates"`
}

// MatchAll scores the full client × opportunity cross product and
// materializes every pair at or above the cutoff.
func (e *Engine) MatchAll(ctx context.Context, clients []models.ClientProfile, opps []*models.Opportunity) (Result, error) {
	var res Result
	for _, opp := range opps {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("match generation interrupted: %w", err)
		}
		r, err := e.scoreClients(ctx, clients, opp)
		if err != nil {
			return res, err
		}
		res.PairsScored += r.PairsScored
		res.Created += r.Created
		res.BelowCutoff += r.BelowCutoff
		res.Duplicates += r.Duplicates
	}
	log.Printf("[match] batch done: %d pairs, %d created, %d below cutoff, %d duplicates",
		res.PairsScored, res.Created, res.BelowCutoff, res.Duplicates)
	return res, nil
}

// MatchOpportunity generates matches for a single newly extracted
// opportunity, applying the same cutoff as batch generation. It is a
// no-op when the opportunity already has matches.
func (e *Engine) MatchOpportunity(ctx context.Context, clients []models.ClientProfile, opp *models.Opportunity) (Result, error) {
	e.acquire(opp.ID)
	defer e.release(opp.ID)

	exists, err := e.store.HasMatches(ctx, opp.ID)
	if err != nil {
		return Result{}, fmt.Errorf("check existing matches: %w", err)
	}
	if exists {
		log.Printf("[match] opportunity %s already matched, skipping", opp.ID)
		return Result{}, nil
	}
	return e.scoreClients(ctx, clients, opp)
}

func (e *Engine) scoreClients(ctx context.Context, clients []models.ClientProfile, opp *models.Opportunity) (Result, error) {
	var res Result
	for _, client := range clients {
		res.PairsScored++
		score := Score(client, opp, e.cfg)
		if score < e.cfg.ScoreCutoff {
			res.BelowCutoff++
			continue
		}
		created, err := e.store.SaveMatchScore(ctx, models.MatchScore{
			ClientID:      client.ID,
			OpportunityID: opp.ID,
			Score:         score,
			ComputedAt:    e.clock(),
		})
		if err != nil {
			return res, fmt.Errorf("save match %s/%s: %w", client.ID, opp.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Duplicates++
		}
	}
	return res, nil
}

func (e *Engine) acquire(id uuid.UUID) {
	e.mu.Lock()
	lock, ok := e.locks[id]
	if !ok {
		lock = &oppLock{}
		e.locks[id] = lock
	}
	lock.refs++
	e.mu.Unlock()

	lock.mu.Lock()
}

func (e *Engine) release(id uuid.UUID) {
	e.mu.Lock()
	lock := e.locks[id]
	lock.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(e.locks, id)
	}
	e.mu.Unlock()
}
