package match

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/davide/bandi-radar/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	scores map[string]models.MatchScore
}

func newFakeStore() *fakeStore {
	return &fakeStore{scores: make(map[string]models.MatchScore)}
}

func (f *fakeStore) SaveOpportunity(ctx context.Context, opp *models.Opportunity) error {
	return nil
}

func (f *fakeStore) SaveMatchScore(ctx context.Context, score models.MatchScore) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := score.ClientID.String() + "/" + score.OpportunityID.String()
	if _, ok := f.scores[key]; ok {
		return false, nil
	}
	f.scores[key] = score
	return true, nil
}

func (f *fakeStore) HasMatches(ctx context.Context, opportunityID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.scores {
		if s.OpportunityID == opportunityID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scores)
}

func testClients() []models.ClientProfile {
	return []models.ClientProfile{
		{ID: uuid.New(), Sector: "Tecnologia", Region: "Lombardia"},
		{ID: uuid.New(), Sector: "Agricoltura", Region: "Puglia"},
	}
}

func nationalTechOpportunity() *models.Opportunity {
	return &models.Opportunity{
		ID:         uuid.New(),
		Title:      "Bando Digitale",
		Sectors:    []string{"Tecnologia"},
		IssuerType: models.IssuerNational,
	}
}

func TestMatchAllAppliesCutoff(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, DefaultConfig())

	// Tech client scores 86 (above cutoff); agriculture client scores
	// round(20/70*100)=29 (below).
	res, err := engine.MatchAll(context.Background(), testClients(), []*models.Opportunity{nationalTechOpportunity()})
	if err != nil {
		t.Fatal(err)
	}
	if res.PairsScored != 2 {
		t.Errorf("pairs scored = %d, want 2", res.PairsScored)
	}
	if res.Created != 1 || store.count() != 1 {
		t.Errorf("created = %d (stored %d), want 1", res.Created, store.count())
	}
	if res.BelowCutoff != 1 {
		t.Errorf("below cutoff = %d, want 1", res.BelowCutoff)
	}
}

func TestMatchOpportunitySkipsAlreadyMatched(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, DefaultConfig())
	clients := testClients()
	opp := nationalTechOpportunity()

	first, err := engine.MatchOpportunity(context.Background(), clients, opp)
	if err != nil {
		t.Fatal(err)
	}
	if first.Created != 1 {
		t.Fatalf("first run created = %d, want 1", first.Created)
	}

	second, err := engine.MatchOpportunity(context.Background(), clients, opp)
	if err != nil {
		t.Fatal(err)
	}
	if second.Created != 0 || second.PairsScored != 0 {
		t.Errorf("second run = %+v, want a no-op", second)
	}
	if store.count() != 1 {
		t.Errorf("stored %d scores, want 1", store.count())
	}
}

func TestMatchOpportunityConcurrentCallsCreateOnce(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, DefaultConfig())
	clients := testClients()
	opp := nationalTechOpportunity()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.MatchOpportunity(context.Background(), clients, opp); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if store.count() != 1 {
		t.Errorf("stored %d scores after concurrent runs, want 1", store.count())
	}

	// The per-opportunity lock entry is released with its last holder.
	engine.mu.Lock()
	remaining := len(engine.locks)
	engine.mu.Unlock()
	if remaining != 0 {
		t.Errorf("%d lock entries retained after all runs finished", remaining)
	}
}

func TestMatchAllIsIdempotent(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, DefaultConfig())
	clients := testClients()
	opps := []*models.Opportunity{nationalTechOpportunity()}

	if _, err := engine.MatchAll(context.Background(), clients, opps); err != nil {
		t.Fatal(err)
	}
	res, err := engine.MatchAll(context.Background(), clients, opps)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 0 || res.Duplicates != 1 {
		t.Errorf("rerun = %+v, want 0 created and 1 duplicate", res)
	}
	if store.count() != 1 {
		t.Errorf("stored %d scores, want 1", store.count())
	}
}

func TestMatchAllHonorsContextCancellation(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.MatchAll(ctx, testClients(), []*models.Opportunity{nationalTechOpportunity()}); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
