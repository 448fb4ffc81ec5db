package campaign

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	campaigns map[string]Campaign
	pledges   map[string][]Pledge
}

// NewMemoryRepository builds an in-memory campaign store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		campaigns: make(map[string]Campaign),
		pledges:   make(map[string][]Pledge),
	}
}

func (r *memoryRepository) Create(_ context.Context, c Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaigns[c.ID] = c
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	campaigns := make([]Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		campaigns = append(campaigns, c)
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return campaigns, nil
}

func (r *memoryRepository) PledgesFor(_ context.Context, campaignID string) ([]Pledge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pledges := make([]Pledge, len(r.pledges[campaignID]))
	copy(pledges, r.pledges[campaignID])
	return pledges, nil
}
