package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	listCacheKey = "campaigns:list:v1"
	listCacheTTL = 30 * time.Second
)

// Service manages campaign lifecycle and listing.
type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
}

// NewService creates a campaign service. The cache is optional; without it
// every listing hits the repository.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreateInput captures the data needed to open a campaign.
type CreateInput struct {
	Title       string
	Description string
	Goal        string
	OwnerName   string
	OwnerEmail  string
}

// Create validates and stores a new campaign.
func (s *Service) Create(ctx context.Context, input CreateInput) (Campaign, error) {
	if input.Title == "" || input.Description == "" {
		return Campaign{}, fmt.Errorf("title and description are required")
	}
	goal, err := decimal.NewFromString(input.Goal)
	if err != nil || !goal.IsPositive() {
		return Campaign{}, fmt.Errorf("goal must be a positive number")
	}
	if input.OwnerName == "" {
		input.OwnerName = "Anonymous"
	}
	if input.OwnerEmail == "" {
		input.OwnerEmail = "anonymous@example.com"
	}

	c := Campaign{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Goal:        goal.Round(2),
		Raised:      decimal.Zero,
		OwnerName:   input.OwnerName,
		OwnerEmail:  input.OwnerEmail,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Campaign{}, err
	}
	s.InvalidateList(ctx)
	return c, nil
}

// Find fetches a single campaign without its pledges.
func (s *Service) Find(ctx context.Context, id string) (Campaign, error) {
	return s.repo.Get(ctx, id)
}

// Get fetches a campaign together with its pledge history.
func (s *Service) Get(ctx context.Context, id string) (Campaign, []Pledge, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Campaign{}, nil, err
	}
	pledges, err := s.repo.PledgesFor(ctx, id)
	if err != nil {
		return Campaign{}, nil, err
	}
	return c, pledges, nil
}

// List returns all campaigns, newest first, serving from the cache when a
// fresh copy is available. Cache failures fall through to the repository.
func (s *Service) List(ctx context.Context) ([]Campaign, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, listCacheKey).Result()
		if err == nil {
			var campaigns []Campaign
			if err := json.Unmarshal([]byte(cached), &campaigns); err == nil {
				return campaigns, nil
			}
		} else if err != redis.Nil && s.logger != nil {
			s.logger.Warn("campaign list cache lookup failed", "error", err)
		}
	}

	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(campaigns); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, payload, listCacheTTL).Err(); err != nil && s.logger != nil {
				s.logger.Warn("campaign list cache store failed", "error", err)
			}
		}
	}
	return campaigns, nil
}

// InvalidateList drops the cached campaign listing. Called after any write
// that changes a campaign row, including committed pledges.
func (s *Service) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("campaign list cache invalidation failed", "error", err)
	}
}
