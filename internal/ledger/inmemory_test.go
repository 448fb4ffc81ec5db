package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koleka/koleka/internal/campaign"
)

func seedTestCampaign(l Ledger) campaign.Campaign {
	c := campaign.Campaign{
		ID:        "11111111-1111-1111-1111-111111111111",
		Title:     "Clean water",
		Goal:      decimal.NewFromInt(1000),
		Raised:    decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	SeedCampaign(l, c)
	return c
}

func TestCommitAppliesPledgeAndIncrementTogether(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory()
	c := seedTestCampaign(l)

	tx, err := l.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	amount := decimal.RequireFromString("12.50")
	if _, err := tx.InsertPledge(ctx, c.ID, amount, "26876123456", time.Now()); err != nil {
		t.Fatalf("insert pledge: %v", err)
	}
	if _, err := tx.IncrementRaised(ctx, c.ID, amount); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	snap, ok := CampaignSnapshot(l, c.ID)
	if !ok {
		t.Fatal("campaign missing")
	}
	if !snap.Raised.Equal(amount) {
		t.Fatalf("raised = %s, want %s", snap.Raised, amount)
	}
	if got := PledgeCount(l, c.ID); got != 1 {
		t.Fatalf("pledge count = %d, want 1", got)
	}
}

func TestRollbackLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory()
	c := seedTestCampaign(l)

	tx, err := l.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	amount := decimal.NewFromInt(40)
	if _, err := tx.InsertPledge(ctx, c.ID, amount, "26876123456", time.Now()); err != nil {
		t.Fatalf("insert pledge: %v", err)
	}
	if _, err := tx.IncrementRaised(ctx, c.ID, amount); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	snap, _ := CampaignSnapshot(l, c.ID)
	if !snap.Raised.IsZero() {
		t.Fatalf("raised = %s after rollback, want 0", snap.Raised)
	}
	if got := PledgeCount(l, c.ID); got != 0 {
		t.Fatalf("pledge count = %d after rollback, want 0", got)
	}
}

func TestUnknownCampaign(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory()

	tx, err := l.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.CampaignByID(ctx, "missing"); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestConcurrentCommitsSerialize(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory()
	c := seedTestCampaign(l)

	amounts := []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(15)}
	var wg sync.WaitGroup
	for _, amount := range amounts {
		wg.Add(1)
		go func(amount decimal.Decimal) {
			defer wg.Done()
			tx, err := l.Begin(ctx)
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			if _, err := tx.InsertPledge(ctx, c.ID, amount, "26876123456", time.Now()); err != nil {
				t.Errorf("insert pledge: %v", err)
				return
			}
			if _, err := tx.IncrementRaised(ctx, c.ID, amount); err != nil {
				t.Errorf("increment: %v", err)
				return
			}
			if err := tx.Commit(ctx); err != nil {
				t.Errorf("commit: %v", err)
			}
		}(amount)
	}
	wg.Wait()

	snap, _ := CampaignSnapshot(l, c.ID)
	if want := decimal.NewFromInt(25); !snap.Raised.Equal(want) {
		t.Fatalf("raised = %s, want %s", snap.Raised, want)
	}
	if got := PledgeCount(l, c.ID); got != 2 {
		t.Fatalf("pledge count = %d, want 2", got)
	}
}
