package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koleka/koleka/internal/campaign"
	"github.com/koleka/koleka/internal/ledger"
	"github.com/koleka/koleka/internal/momo"
	"github.com/koleka/koleka/internal/notification"
)

const (
	providerSimulated = "MTN MoMo (simulated)"
	providerMomo      = "MTN MoMo"
)

// phone accepts +countrycode or local 0-leading numbers, 8-15 digits, after
// stripping spaces and dashes.
var phonePattern = regexp.MustCompile(`^(\+?\d{8,15}|0\d{8,14})$`)

// Gateway is the external payment provider surface the coordinator drives.
type Gateway interface {
	Configured() bool
	Initiate(ctx context.Context, req momo.InitiateRequest) (momo.Handle, error)
	QueryStatus(ctx context.Context, h momo.Handle) (any, error)
}

// Service coordinates funding transactions: it validates the request,
// reconciles the external payment to a terminal outcome and applies the
// result to the campaign ledger in one atomic transaction.
type Service struct {
	ledger    ledger.Ledger
	campaigns *campaign.Service
	gateway   Gateway
	poller    *momo.Poller
	notifier  notification.Notifier
	logger    *slog.Logger

	// fallbackSimulate downgrades a failed gateway initiation to a simulated
	// success instead of failing the request. Preserved from the original
	// system; off means initiation failures surface as payment errors.
	fallbackSimulate bool
}

// NewService constructs the funding coordinator. A nil gateway or one without
// an API key selects the simulated payment path.
func NewService(ledgerBackend ledger.Ledger, campaigns *campaign.Service, gateway Gateway, poller *momo.Poller, notifier notification.Notifier, logger *slog.Logger, fallbackSimulate bool) (*Service, error) {
	if ledgerBackend == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if campaigns == nil {
		return nil, fmt.Errorf("campaign service is required")
	}
	if poller == nil {
		poller = momo.NewPoller(0, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:           ledgerBackend,
		campaigns:        campaigns,
		gateway:          gateway,
		poller:           poller,
		notifier:         notifier,
		logger:           logger,
		fallbackSimulate: fallbackSimulate,
	}, nil
}

// Result describes a committed funding transaction.
type Result struct {
	TransactionID string
	Provider      string
	Status        string
	Amount        decimal.Decimal
	Phone         string
	Simulated     bool
	Campaign      campaign.Campaign
}

// Fund runs one funding request end to end. Callers should treat it as a
// potentially long-latency operation: the reconciliation poll can block for
// up to the configured deadline before the short-lived commit transaction
// opens. Failures are always a *Error carrying the kind.
func (s *Service) Fund(ctx context.Context, campaignID, rawPhone, rawAmount string) (Result, error) {
	phone, amount, err := validate(rawPhone, rawAmount)
	if err != nil {
		return Result{}, err
	}

	// Pre-read outside any transaction: resolves NotFound early and supplies
	// the title for the provider note.
	target, err := s.campaigns.Find(ctx, campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			return Result{}, notFoundError()
		}
		return Result{}, storageError(err)
	}

	result := Result{
		TransactionID: demoTransactionID(),
		Provider:      providerSimulated,
		Status:        string(momo.OutcomeSuccessful),
		Amount:        amount,
		Phone:         phone,
		Simulated:     true,
	}

	if s.gateway != nil && s.gateway.Configured() {
		refID, err := s.reconcile(ctx, target, phone, amount)
		if err != nil {
			return Result{}, err
		}
		if refID != "" {
			result.TransactionID = refID
			result.Provider = providerMomo
			result.Simulated = false
		}
		// refID empty: initiation fell back to the simulated path.
	}

	committed, err := s.commit(ctx, target.ID, phone, amount)
	if err != nil {
		return Result{}, err
	}
	result.Campaign = committed
	s.campaigns.InvalidateList(ctx)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPledgeReceived,
			Destination: committed.OwnerEmail,
			Body:        fmt.Sprintf("Pledge of %s received for %s", amount.StringFixed(2), committed.Title),
		})
	}

	return result, nil
}

// reconcile drives the real-gateway path to a decision. It returns the
// provider reference on success, an empty reference when initiation failed
// and the simulated fallback absorbed it, or a payment error.
func (s *Service) reconcile(ctx context.Context, target campaign.Campaign, phone string, amount decimal.Decimal) (string, error) {
	handle, err := s.gateway.Initiate(ctx, momo.InitiateRequest{
		MSISDN:       phone,
		Amount:       amount.StringFixed(2),
		Reference:    shortReference(target.ID),
		PayerMessage: "Koleka Pledge",
		PayeeNote:    "Pledge for " + target.Title,
	})
	if err != nil {
		if !s.fallbackSimulate {
			s.logger.Error("payment initiation failed", "campaign_id", target.ID, "error", err)
			return "", paymentError(momo.OutcomeError, false)
		}
		// Explicit degraded mode: a real-payment attempt becomes a demo
		// success, so it must be loud in the logs and flagged in the result.
		s.logger.Warn("payment initiation failed, falling back to simulated success",
			"campaign_id", target.ID, "error", err)
		return "", nil
	}

	res, err := s.poller.Poll(ctx, s.gateway, handle)
	if err != nil {
		// A handle exists, so the payment may have gone through; downgrading
		// to a simulated success here could double-credit. Fail the request.
		s.logger.Error("payment status polling failed", "campaign_id", target.ID,
			"reference_id", handle.ReferenceID, "error", err)
		return "", paymentError(momo.OutcomeError, false)
	}
	if !res.Outcome.Successful() {
		s.logger.Info("payment reconciled as not successful", "campaign_id", target.ID,
			"reference_id", handle.ReferenceID, "outcome", string(res.Outcome), "timed_out", res.TimedOut)
		return "", paymentError(res.Outcome, res.TimedOut)
	}
	return handle.ReferenceID, nil
}

// commit applies the pledge and the raised increment inside one storage
// transaction. Opened only after the outcome is decided, so it stays
// short-lived despite the reconciliation wait.
func (s *Service) commit(ctx context.Context, campaignID, phone string, amount decimal.Decimal) (campaign.Campaign, error) {
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return campaign.Campaign{}, storageError(err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.CampaignByID(ctx, campaignID); err != nil {
		if errors.Is(err, ledger.ErrCampaignNotFound) {
			return campaign.Campaign{}, notFoundError()
		}
		return campaign.Campaign{}, storageError(err)
	}
	if _, err := tx.InsertPledge(ctx, campaignID, amount, phone, time.Now().UTC()); err != nil {
		return campaign.Campaign{}, storageError(err)
	}
	updated, err := tx.IncrementRaised(ctx, campaignID, amount)
	if err != nil {
		return campaign.Campaign{}, storageError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return campaign.Campaign{}, storageError(err)
	}
	return updated, nil
}

func validate(rawPhone, rawAmount string) (string, decimal.Decimal, error) {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(rawPhone))
	if !phonePattern.MatchString(phone) {
		return "", decimal.Decimal{}, validationError("Enter a valid mobile number")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil || !amount.IsPositive() {
		return "", decimal.Decimal{}, validationError("Amount must be a positive number")
	}
	return phone, amount.Round(2), nil
}

func shortReference(campaignID string) string {
	if len(campaignID) > 8 {
		return campaignID[:8]
	}
	return campaignID
}

func demoTransactionID() string {
	return "TX-" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}
