package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"tnu/pricetracker/config"
	"tnu/pricetracker/helpers"
	"tnu/pricetracker/internal/browser"
	"tnu/pricetracker/internal/checker"
	"tnu/pricetracker/internal/digest"
	"tnu/pricetracker/internal/storage/migrations"
	"tnu/pricetracker/internal/storage/postgres"
	"tnu/pricetracker/internal/watchlist"
	"tnu/pricetracker/logger"
	"tnu/pricetracker/services/cache"
	"tnu/pricetracker/services/messenger"
	"tnu/pricetracker/services/publisher"
	"tnu/pricetracker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("day_timezone", cfg.DayTimezone).
		Dur("run_interval", cfg.RunInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Load the watchlist
	listName, items, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load watchlist")
	}
	log.Info().
		Str("watchlist", listName).
		Int("items", len(items)).
		Msg("Loaded watchlist")

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Assemble the check pipeline
	jitter := helpers.NewJitter(cfg.MinDelay, cfg.MaxDelay)
	runner := browser.NewExecRunner(cfg.OpenClawBin)
	client := browser.NewOpenClaw(runner, cfg.BrowserTimeout)

	checkStore := postgres.NewCheckStore(services.Pool)
	productStore := postgres.NewProductStore(services.Pool)

	builder := digest.NewBuilder(checkStore, cfg.HistoryDays)
	builder.StoreLabel = storeLabel(cfg.DatabaseDSN)

	w := worker.NewWorker(
		worker.Deps{
			Client:    client,
			Checker:   checker.NewChecker(client, jitter, cfg.ProductURLTemplate, cfg.OfferCondition),
			Products:  productStore,
			Checks:    checkStore,
			Digest:    builder,
			Messenger: messenger.NewOpenClaw(runner, cfg.BrowserTimeout),
			Publisher: services.Publisher,
			Guard:     services.Guard,
		},
		items,
		worker.Options{
			RunLabel:            listName,
			Location:            cfg.Location(),
			CrossRefURLTemplate: cfg.CrossRefURLTemplate,
			MessageChannel:      cfg.MessageChannel,
			MessageTarget:       cfg.MessageTarget,
			DryRun:              cfg.DryRun,
			RunInterval:         cfg.RunInterval,
		},
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting price tracker worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds the initialized infrastructure services
type Services struct {
	Pool      *postgres.Pool
	Publisher publisher.Publisher
	Guard     *cache.Guard
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// initializeServices connects storage and the optional cache and publisher
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Connect Postgres and bring the schema up to date
	pool, err := postgres.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	services.Pool = pool

	logger.Infof("Connected to Postgres (%s)", storeLabel(cfg.DatabaseDSN))

	// Cooldown guard is optional
	if cfg.MemcacheAddr != "" && cfg.CheckCooldown > 0 {
		cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		services.Guard = cache.NewGuard(cacheService, cfg.CheckCooldown)

		logger.Infof("Connected to Memcache at %s (cooldown: %s)", cfg.MemcacheAddr, cfg.CheckCooldown)
	}

	// Check publishing is optional
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)

		logger.Infof("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}

// storeLabel is the short database name shown in logs and the digest footer.
func storeLabel(dsn string) string {
	name := dsn[strings.LastIndexByte(dsn, '/')+1:]
	if j := strings.IndexByte(name, '?'); j >= 0 {
		name = name[:j]
	}
	if name == "" {
		return "pricetracker"
	}
	return name
}
