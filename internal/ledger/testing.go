package ledger

import "github.com/koleka/koleka/internal/campaign"

// SeedCampaign is a test helper that stores a campaign directly when using
// the in-memory store.
func SeedCampaign(l Ledger, c campaign.Campaign) {
	if mem, ok := l.(*InMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.campaigns[c.ID] = c
	}
}

// CampaignSnapshot returns the committed state of a campaign from the
// in-memory store.
func CampaignSnapshot(l Ledger, id string) (campaign.Campaign, bool) {
	mem, ok := l.(*InMemoryStore)
	if !ok {
		return campaign.Campaign{}, false
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	c, ok := mem.campaigns[id]
	return c, ok
}

// PledgeCount returns the number of committed pledges for a campaign in the
// in-memory store.
func PledgeCount(l Ledger, campaignID string) int {
	mem, ok := l.(*InMemoryStore)
	if !ok {
		return 0
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	return len(mem.pledges[campaignID])
}

// BeginCount reports how many transactions have been opened against the
// in-memory store, letting tests assert that validation failures never
// touch storage.
func BeginCount(l Ledger) int {
	mem, ok := l.(*InMemoryStore)
	if !ok {
		return 0
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	return mem.beginCount
}
