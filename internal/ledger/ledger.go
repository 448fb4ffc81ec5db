package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koleka/koleka/internal/campaign"
)

// ErrCampaignNotFound occurs when a transaction references a campaign that
// does not exist.
var ErrCampaignNotFound = errors.New("campaign not found")

// Ledger opens transactions against the campaign ledger.
type Ledger interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx scopes ledger operations to one storage transaction. A pledge insert and
// its raised increment must always travel in the same Tx: one must never be
// committed without the other.
type Tx interface {
	CampaignByID(ctx context.Context, id string) (campaign.Campaign, error)
	InsertPledge(ctx context.Context, campaignID string, amount decimal.Decimal, phone string, ts time.Time) (campaign.Pledge, error)
	IncrementRaised(ctx context.Context, campaignID string, amount decimal.Decimal) (campaign.Campaign, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
