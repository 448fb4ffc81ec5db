package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the referenced campaign does not exist.
var ErrNotFound = errors.New("campaign not found")

// Repository persists campaigns and their pledges.
type Repository interface {
	Create(ctx context.Context, c Campaign) error
	Get(ctx context.Context, id string) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	PledgesFor(ctx context.Context, campaignID string) ([]Pledge, error)
}

// PostgresRepository stores campaigns in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a campaign record.
func (r *PostgresRepository) Create(ctx context.Context, c Campaign) error {
	campaignID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO campaigns (id, title, description, goal, raised, owner_name, owner_email, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)`,
		campaignID, c.Title, c.Description, c.Goal.StringFixed(2), c.Raised.StringFixed(2),
		c.OwnerName, c.OwnerEmail, c.CreatedAt.UTC())
	return err
}

// Get fetches a campaign by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Campaign, error) {
	campaignID, err := uuid.Parse(id)
	if err != nil {
		return Campaign{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, title, description, goal::text, raised::text, owner_name, owner_email, created_at
        FROM campaigns WHERE id = $1`, campaignID)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

// List returns all campaigns, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Campaign, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, goal::text, raised::text, owner_name, owner_email, created_at
        FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// PledgesFor returns the pledges recorded against a campaign, newest first.
func (r *PostgresRepository) PledgesFor(ctx context.Context, campaignID string) ([]Pledge, error) {
	id, err := uuid.Parse(campaignID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, campaign_id, amount::text, phone, created_at
        FROM pledges WHERE campaign_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []Pledge
	for rows.Next() {
		var (
			p          Pledge
			pledgeID   uuid.UUID
			campaignID uuid.UUID
			amount     string
			createdAt  time.Time
		)
		if err := rows.Scan(&pledgeID, &campaignID, &amount, &p.Phone, &createdAt); err != nil {
			return nil, err
		}
		p.ID = pledgeID.String()
		p.CampaignID = campaignID.String()
		p.CreatedAt = createdAt.UTC()
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		pledges = append(pledges, p)
	}
	return pledges, rows.Err()
}

func scanCampaign(row pgx.Row) (Campaign, error) {
	var (
		c         Campaign
		id        uuid.UUID
		goal      string
		raised    string
		createdAt time.Time
	)
	if err := row.Scan(&id, &c.Title, &c.Description, &goal, &raised, &c.OwnerName, &c.OwnerEmail, &createdAt); err != nil {
		return Campaign{}, err
	}
	c.ID = id.String()
	c.CreatedAt = createdAt.UTC()
	var err error
	if c.Goal, err = decimal.NewFromString(goal); err != nil {
		return Campaign{}, err
	}
	if c.Raised, err = decimal.NewFromString(raised); err != nil {
		return Campaign{}, err
	}
	return c, nil
}
