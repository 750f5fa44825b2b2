// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	router "github.com/Phermidex/zenithCrypto/internal/api"
	"github.com/Phermidex/zenithCrypto/internal/api/handler"
	"github.com/Phermidex/zenithCrypto/internal/config"
	"github.com/Phermidex/zenithCrypto/internal/metrics"
	"github.com/Phermidex/zenithCrypto/internal/notify"
	"github.com/Phermidex/zenithCrypto/internal/oracle"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/repository/memory"
	"github.com/Phermidex/zenithCrypto/internal/repository/postgres"
	"github.com/Phermidex/zenithCrypto/internal/repository/redis"
	"github.com/Phermidex/zenithCrypto/internal/service"
	"github.com/Phermidex/zenithCrypto/internal/util"
	"github.com/Phermidex/zenithCrypto/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	DB       *sqlx.DB        // nil with the memory driver
	Redis    *goredis.Client // nil when quotes stay in memory
	Kafka    *kgo.Client     // nil when notifications are log-only
	Registry *prometheus.Registry

	// Repositories
	LedgerStore           repository.LedgerStore
	UserRepository        repository.UserRepository
	AssetRepository       repository.AssetRepository
	CardRepository        repository.CardRepository
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository
	QuoteRepository       repository.QuoteRepository

	// Services
	LedgerService    service.LedgerService
	QuoteService     service.QuoteService
	ExchangeService  service.ExchangeService
	PortfolioService service.PortfolioService
	AssetService     service.AssetService
	ProfileService   service.ProfileService
	CardService      service.CardService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "store_driver", cfg.StoreDriver)

	// 3. Initialize Repositories
	if err := app.initRepositories(ctx); err != nil {
		return err
	}
	if err := app.initQuoteRepository(ctx); err != nil {
		return err
	}
	app.Logger.Info("Repositories initialized.")

	// 4. Initialize Metrics and Notifications
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedger(app.Registry)

	sink, err := app.initSink()
	if err != nil {
		return err
	}

	// 5. Initialize Services
	priceOracle := oracle.NewCachedOracle(oracle.NewStaticOracle(cfg.AssetPrices), cfg.PriceCacheTTL)

	app.AssetService = service.NewAssetService(app.AssetRepository, app.Logger)
	if err := app.AssetService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed assets: %w", err)
	}
	app.ProfileService = service.NewProfileService(app.UserRepository)
	app.CardService = service.NewCardService(app.CardRepository)
	app.LedgerService = service.NewLedgerService(app.LedgerStore, app.AssetRepository, app.UserRepository,
		service.WithLedgerMetrics(ledgerMetrics),
		service.WithLedgerLogger(app.Logger),
	)
	app.QuoteService = service.NewQuoteService(app.QuoteRepository, app.AssetRepository, priceOracle, cfg.FiatCurrency, cfg.QuoteTTL)
	app.PortfolioService = service.NewPortfolioService(app.WalletRepository, app.TransactionRepository, app.AssetRepository,
		priceOracle, cfg.FiatCurrency, app.Logger)
	app.ExchangeService = service.NewExchangeService(app.LedgerService, app.QuoteService, app.CardService, sink,
		cfg.FiatCurrency,
		service.RetryConfig{MaxRetries: cfg.ConflictMaxRetries, Delay: cfg.ConflictRetryDelay},
		ledgerMetrics, app.Logger)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Assets:   handler.NewAssetHandler(app.AssetService, app.Logger),
		Quotes:   handler.NewQuoteHandler(app.QuoteService, app.Logger),
		Accounts: handler.NewAccountHandler(app.ProfileService, app.PortfolioService, app.Logger),
		Exchange: handler.NewExchangeHandler(app.ExchangeService, app.Logger),
		Cards:    handler.NewCardHandler(app.CardService, app.Logger),
	}, []byte(cfg.JWTSecret), app.Registry)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initRepositories(ctx context.Context) error {
	if app.Config.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		app.LedgerStore = store
		app.UserRepository = store
		app.AssetRepository = store
		app.CardRepository = store
		app.WalletRepository = store
		app.TransactionRepository = store
		app.Logger.Warn("Using in-memory store; balances are lost on restart.")
		return nil
	}

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, database); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.LedgerStore = postgres.NewLedgerStore(database, db.BeginTx, db.CommitTx, db.RollbackTx)
	app.UserRepository = postgres.NewUserRepository(database)
	app.AssetRepository = postgres.NewAssetRepository(database)
	app.CardRepository = postgres.NewCardRepository(database)
	app.WalletRepository = postgres.NewWalletRepository(database)
	app.TransactionRepository = postgres.NewTransactionRepository(database)
	return nil
}

func (app *Application) initQuoteRepository(ctx context.Context) error {
	if app.Config.RedisAddr == "" {
		app.QuoteRepository = memory.NewQuoteStore()
		return nil
	}

	client, err := redis.NewClient(ctx, app.Config.RedisAddr)
	if err != nil {
		return err
	}
	app.Redis = client
	app.QuoteRepository = redis.NewQuoteRepository(client)
	app.Logger.Info("Redis quote store connected.", "addr", app.Config.RedisAddr)
	return nil
}

func (app *Application) initSink() (notify.Sink, error) {
	sinks := notify.Multi{notify.NewLogSink(app.Logger)}
	if len(app.Config.KafkaBrokers) == 0 {
		return sinks, nil
	}

	client, err := notify.NewKafkaClient(app.Config.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	app.Kafka = client
	app.Logger.Info("Kafka notifications enabled.", "topic", app.Config.KafkaTopic)
	return append(sinks, notify.NewKafkaSink(client, app.Config.KafkaTopic)), nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	var errs []error
	if app.Kafka != nil {
		if err := app.Kafka.Flush(ctx); err != nil {
			app.Logger.Error("Failed to flush kafka producer", "error", err)
		}
		app.Kafka.Close()
		app.Logger.Info("Kafka client closed.")
	}
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to close redis connection: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		} else {
			app.Logger.Info("Database connection closed.")
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
