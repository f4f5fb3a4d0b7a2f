package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/jobworker/config"
	"sjsage522/jobworker/helpers"
	"sjsage522/jobworker/internal/scraper"
	"sjsage522/jobworker/logger"
	"sjsage522/jobworker/services/cache"
	"sjsage522/jobworker/services/notifier"
	"sjsage522/jobworker/services/pipeline"
	"sjsage522/jobworker/services/publisher"
	"sjsage522/jobworker/services/store"
	"sjsage522/jobworker/services/worker"

	"github.com/joho/godotenv"
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
		Strs("sources", cfg.Sources).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create pipelines, one per configured source
	runs, err := createRuns(&cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create pipelines")
	}
	if len(runs) == 0 {
		log.Fatal().Msg("No pipelines were created")
	}

	log.Info().
		Int("pipeline_count", len(runs)).
		Msg("Created pipelines")

	// Create and start worker
	w := worker.NewWorker(ctx, runs, cfg.CrawlInterval)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting job worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Store     store.Store
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Notifier != nil {
		s.Notifier.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize store
	sqliteStore, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	services.Store = sqliteStore
	logger.Info("Opened job store at %s", cfg.SQLitePath)

	// Initialize publisher
	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Initialize the Telegram notifier when a token is configured
	if cfg.TelegramToken != "" {
		telegramNotifier, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatIDs)
		if err != nil {
			return nil, err
		}
		services.Notifier = telegramNotifier
		logger.Info("Telegram notifier enabled for %d chats", len(cfg.TelegramChatIDs))
	} else {
		logger.Warn("Telegram notifications disabled (no token configured)")
	}

	return services, nil
}

// createRuns builds one pipeline and seed query per configured source.
// Each pipeline gets its own fetch session so that sources do not
// share cookie jars or politeness limiters.
func createRuns(cfg *config.Config, services *Services) ([]worker.Run, error) {
	var runs []worker.Run
	for _, name := range cfg.Sources {
		source, err := scraper.ParseSource(name)
		if err != nil {
			return nil, err
		}

		adapter, err := scraper.NewAdapter(source, cfg.BaseURL(name))
		if err != nil {
			return nil, err
		}

		session := helpers.NewSession(helpers.SessionConfig{
			Delay:        cfg.RequestDelay,
			Timeout:      cfg.RequestTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		})

		p := pipeline.New(pipeline.Config{
			Adapter:   adapter,
			Fetcher:   session,
			Store:     services.Store,
			Cache:     services.Cache,
			Publisher: services.Publisher,
			Notifier:  services.Notifier,
			SeenTTL:   cfg.SeenTTL,
		})

		runs = append(runs, worker.Run{
			Pipeline: p,
			Seed: pipeline.Seed{
				Source:   source,
				Keywords: cfg.Keywords,
				Location: cfg.Location,
				MaxPages: cfg.MaxPages,
			},
		})
	}
	return runs, nil
}
