package campaign

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/koleka/koleka/internal/logging"
)

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Title: "", Description: "d", Goal: "100"}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Goal: "-100"}); err == nil {
		t.Fatal("expected error for negative goal")
	}
	if _, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Goal: "nope"}); err == nil {
		t.Fatal("expected error for non-numeric goal")
	}

	c, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Goal: "250.5"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.OwnerName != "Anonymous" {
		t.Fatalf("owner name = %q, want Anonymous default", c.OwnerName)
	}
	if got := c.Goal.StringFixed(2); got != "250.50" {
		t.Fatalf("goal = %s, want 250.50", got)
	}
	if !c.Raised.IsZero() {
		t.Fatalf("raised = %s on a new campaign, want 0", c.Raised)
	}
}

func TestGetWithPledges(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, logging.Discard())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Goal: "100"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, pledges, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("id = %q, want %q", found.ID, created.ID)
	}
	if len(pledges) != 0 {
		t.Fatalf("pledges = %d, want 0", len(pledges))
	}

	mem := repo.(*memoryRepository)
	mem.mu.Lock()
	mem.pledges[created.ID] = append(mem.pledges[created.ID], Pledge{ID: "p1", CampaignID: created.ID})
	mem.mu.Unlock()

	_, pledges, err = svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(pledges) != 1 {
		t.Fatalf("pledges = %d, want 1", len(pledges))
	}

	if _, _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	repo := NewMemoryRepository()
	svc := NewService(repo, cache, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Title: "first", Description: "d", Goal: "100"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	campaigns, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	if !mr.Exists(listCacheKey) {
		t.Fatal("expected list cached after miss")
	}

	// Served from cache: a write bypassing the service is invisible until
	// invalidation.
	if err := repo.Create(ctx, Campaign{ID: "raw", Title: "second"}); err != nil {
		t.Fatalf("raw create: %v", err)
	}
	campaigns, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("cached campaigns = %d, want 1", len(campaigns))
	}

	svc.InvalidateList(ctx)
	campaigns, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("campaigns after invalidation = %d, want 2", len(campaigns))
	}
}

func TestCreateInvalidatesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	svc := NewService(NewMemoryRepository(), cache, logging.Discard())
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Goal: "10"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if mr.Exists(listCacheKey) {
		t.Fatal("expected cache invalidated by create")
	}
}
