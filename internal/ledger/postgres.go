package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/koleka/koleka/internal/campaign"
)

// PostgresLedger opens pgx transactions against the campaign tables.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Begin opens a storage transaction.
func (l *PostgresLedger) Begin(ctx context.Context) (Tx, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx pgx.Tx
}

const campaignColumns = `id, title, description, goal::text, raised::text, owner_name, owner_email, created_at`

// CampaignByID reads a campaign row inside the transaction.
func (t *postgresTx) CampaignByID(ctx context.Context, id string) (campaign.Campaign, error) {
	campaignID, err := uuid.Parse(id)
	if err != nil {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	row := t.tx.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, campaignID)
	c, err := scanCampaignRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	return c, err
}

// InsertPledge records one pledge row within the transaction.
func (t *postgresTx) InsertPledge(ctx context.Context, campaignID string, amount decimal.Decimal, phone string, ts time.Time) (campaign.Pledge, error) {
	cid, err := uuid.Parse(campaignID)
	if err != nil {
		return campaign.Pledge{}, ErrCampaignNotFound
	}
	pledgeID := uuid.New()
	_, err = t.tx.Exec(ctx, `INSERT INTO pledges (id, campaign_id, amount, phone, created_at)
        VALUES ($1, $2, $3::numeric, $4, $5)`, pledgeID, cid, amount.StringFixed(2), phone, ts.UTC())
	if err != nil {
		return campaign.Pledge{}, err
	}
	return campaign.Pledge{
		ID:         pledgeID.String(),
		CampaignID: campaignID,
		Amount:     amount,
		Phone:      phone,
		CreatedAt:  ts.UTC(),
	}, nil
}

// IncrementRaised applies the raised increment as a single atomic statement
// so concurrently committing pledges on the same campaign cannot race a
// read-modify-write.
func (t *postgresTx) IncrementRaised(ctx context.Context, campaignID string, amount decimal.Decimal) (campaign.Campaign, error) {
	cid, err := uuid.Parse(campaignID)
	if err != nil {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	row := t.tx.QueryRow(ctx, `UPDATE campaigns SET raised = raised + $1::numeric WHERE id = $2
        RETURNING `+campaignColumns, amount.StringFixed(2), cid)
	c, err := scanCampaignRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return campaign.Campaign{}, ErrCampaignNotFound
	}
	return c, err
}

func (t *postgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func scanCampaignRow(row pgx.Row) (campaign.Campaign, error) {
	var (
		c         campaign.Campaign
		id        uuid.UUID
		goal      string
		raised    string
		createdAt time.Time
	)
	if err := row.Scan(&id, &c.Title, &c.Description, &goal, &raised, &c.OwnerName, &c.OwnerEmail, &createdAt); err != nil {
		return campaign.Campaign{}, err
	}
	c.ID = id.String()
	c.CreatedAt = createdAt.UTC()
	var err error
	if c.Goal, err = decimal.NewFromString(goal); err != nil {
		return campaign.Campaign{}, err
	}
	if c.Raised, err = decimal.NewFromString(raised); err != nil {
		return campaign.Campaign{}, err
	}
	return c, nil
}
