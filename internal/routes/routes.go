package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/koleka/koleka/internal/campaign"
	"github.com/koleka/koleka/internal/config"
	"github.com/koleka/koleka/internal/funding"
	"github.com/koleka/koleka/internal/ledger"
	"github.com/koleka/koleka/internal/middleware"
	"github.com/koleka/koleka/internal/momo"
	"github.com/koleka/koleka/internal/notification"
	"github.com/koleka/koleka/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Without a database the repository and ledger share one in-memory store,
	// so campaigns created through the API are visible to the funding
	// transaction and committed pledges appear in the pledge history.
	var campaignRepo campaign.Repository
	var userRepo user.Repository
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		campaignRepo = campaign.NewPostgresRepository(d.DB)
		userRepo = user.NewPostgresRepository(d.DB)
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
	} else {
		store := ledger.NewInMemory()
		campaignRepo = store
		userRepo = user.NewMemoryRepository()
		ledgerBackend = store
	}

	campaignSvc := campaign.NewService(campaignRepo, d.Cache, d.Logger)
	userSvc := user.NewService(userRepo)

	gateway := momo.NewClient(d.Cfg.Momo.BaseURL, d.Cfg.Momo.APIKey)
	poller := momo.NewPoller(d.Cfg.Momo.PollInterval, d.Cfg.Momo.PollTimeout)
	notifier := notification.NewLoggerNotifier(d.Logger)

	fundingSvc, err := funding.NewService(ledgerBackend, campaignSvc, gateway, poller, notifier, d.Logger, d.Cfg.Momo.FallbackSimulate)
	if err != nil {
		return err
	}

	campaignHandler := campaign.NewHandler(campaignSvc)
	userHandler := user.NewHandler(userSvc)
	fundingHandler := funding.NewHandler(fundingSvc)

	api := app.Group("/api")
	RegisterHealthRoutes(api, d)
	RegisterUserRoutes(api, userHandler)
	RegisterCampaignRoutes(api, campaignHandler)

	fundLimiter := middleware.FundRateLimit(d.Cache, 10)
	RegisterFundingRoutes(api, fundingHandler, fundLimiter)

	return nil
}
