package campaign

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign represents a fundraising campaign owned by a creator. The raised
// total is only ever moved by committed pledges, never written directly.
type Campaign struct {
	ID          string
	Title       string
	Description string
	Goal        decimal.Decimal
	Raised      decimal.Decimal
	OwnerName   string
	OwnerEmail  string
	CreatedAt   time.Time
}

// Pledge is an individual contribution to a campaign. A pledge record only
// exists once the funding transaction that produced it has committed, and it
// is immutable afterwards.
type Pledge struct {
	ID         string
	CampaignID string
	Amount     decimal.Decimal
	Phone      string
	CreatedAt  time.Time
}
