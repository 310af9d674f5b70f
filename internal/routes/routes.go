package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/papertrade/papertrade/internal/config"
	"github.com/papertrade/papertrade/internal/engine"
	"github.com/papertrade/papertrade/internal/middleware"
	"github.com/papertrade/papertrade/internal/notification"
	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/trading"
	"github.com/papertrade/papertrade/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are nil unless the configured store backend needs them.
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
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	app.Use(session.Middleware())

	store, err := newStore(d)
	if err != nil {
		return err
	}

	svc := trading.NewService(store, engineConfig(d.Cfg), d.Cfg.SeedQuote, notification.NewLoggerNotifier(d.Logger))
	handler := trading.NewHandler(svc)

	RegisterHealthRoutes(app, d)
	RegisterIndexRoute(app, svc, d.Cfg.CookieMaxAge, d.Logger)

	api := app.Group("/api")
	RegisterTradingRoutes(api, handler)

	return nil
}

// newStore picks the wallet store backend the deployment selected.
func newStore(d Deps) (wallet.Store, error) {
	switch d.Cfg.StoreBackend {
	case config.BackendFile:
		return wallet.NewFileStore(d.Cfg.DataFile, d.Logger), nil
	case config.BackendRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("redis backend selected without a client")
		}
		return wallet.NewRedisStore(d.Cache, d.Logger), nil
	case config.BackendPostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("postgres backend selected without a pool")
		}
		return wallet.NewPostgresStore(d.DB, d.Logger), nil
	default:
		return wallet.NewMemoryStore(), nil
	}
}

func engineConfig(cfg config.Config) engine.Config {
	mode := engine.ModeCommission
	rate := cfg.CommissionRate
	if cfg.TradeMode == "simple" {
		mode = engine.ModeSimple
		rate = decimal.Zero
	}
	return engine.Config{
		Mode:           mode,
		MinNotional:    cfg.MinNotional,
		CommissionRate: rate,
	}
}
