package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koleka/koleka/internal/campaign"
)

// InMemoryStore is a concurrency-safe in-memory backend implementing both the
// campaign repository and the ledger over one shared state, so a campaign
// created through the API is visible to the funding transaction and committed
// pledges show up in the pledge history. Ledger writes are staged per
// transaction and only applied on Commit, with the increment computed against
// the committed state at commit time.
type InMemoryStore struct {
	mu        sync.Mutex
	campaigns map[string]campaign.Campaign
	pledges   map[string][]campaign.Pledge

	beginCount int
}

// NewInMemory creates an empty in-memory store, used in tests and in
// database-less demo deployments.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		campaigns: make(map[string]campaign.Campaign),
		pledges:   make(map[string][]campaign.Pledge),
	}
}

// Create stores a campaign.
func (s *InMemoryStore) Create(_ context.Context, c campaign.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
	return nil
}

// Get fetches a campaign by ID.
func (s *InMemoryStore) Get(_ context.Context, id string) (campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return campaign.Campaign{}, campaign.ErrNotFound
	}
	return c, nil
}

// List returns all campaigns, newest first.
func (s *InMemoryStore) List(_ context.Context) ([]campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaigns := make([]campaign.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		campaigns = append(campaigns, c)
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return campaigns, nil
}

// PledgesFor returns the committed pledges for a campaign.
func (s *InMemoryStore) PledgesFor(_ context.Context, campaignID string) ([]campaign.Pledge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pledges := make([]campaign.Pledge, len(s.pledges[campaignID]))
	copy(pledges, s.pledges[campaignID])
	return pledges, nil
}

func (s *InMemoryStore) Begin(_ context.Context) (Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginCount++
	return &memoryTx{store: s}, nil
}

type memoryTx struct {
	store *InMemoryStore
	done  bool

	stagedPledge    *campaign.Pledge
	stagedIncrement decimal.Decimal
	incrementTarget string
}

func (t *memoryTx) CampaignByID(_ context.Context, id string) (campaign.Campaign, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	c, ok := t.store.campaigns[id]
	if !ok {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	return c, nil
}

func (t *memoryTx) InsertPledge(_ context.Context, campaignID string, amount decimal.Decimal, phone string, ts time.Time) (campaign.Pledge, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if _, ok := t.store.campaigns[campaignID]; !ok {
		return campaign.Pledge{}, ErrCampaignNotFound
	}
	p := campaign.Pledge{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		Amount:     amount,
		Phone:      phone,
		CreatedAt:  ts.UTC(),
	}
	t.stagedPledge = &p
	return p, nil
}

func (t *memoryTx) IncrementRaised(_ context.Context, campaignID string, amount decimal.Decimal) (campaign.Campaign, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	c, ok := t.store.campaigns[campaignID]
	if !ok {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	t.stagedIncrement = amount
	t.incrementTarget = campaignID
	c.Raised = c.Raised.Add(amount)
	return c, nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return errors.New("transaction already closed")
	}
	t.done = true

	// Both staged writes land together or not at all.
	if t.stagedPledge != nil {
		t.store.pledges[t.stagedPledge.CampaignID] = append(t.store.pledges[t.stagedPledge.CampaignID], *t.stagedPledge)
	}
	if t.incrementTarget != "" {
		c, ok := t.store.campaigns[t.incrementTarget]
		if !ok {
			return ErrCampaignNotFound
		}
		c.Raised = c.Raised.Add(t.stagedIncrement)
		t.store.campaigns[t.incrementTarget] = c
	}
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.stagedPledge = nil
	t.incrementTarget = ""
	return nil
}
