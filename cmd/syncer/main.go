package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/messaging"
	"github.com/feral-file/nft-valuation/internal/providers/jetstream"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/providers/temporal"
	"github.com/feral-file/nft-valuation/internal/ratelimit"
	"github.com/feral-file/nft-valuation/internal/scheduler"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Sync every collection once and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "syncer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting event syncer")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(60 * time.Second)

	redisClient := adapter.NewRedisClient(cfg.Redis)
	defer func() { _ = redisClient.Close() }()
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() { _ = rateLimitProxy.Close() }()
	openseaClient := opensea.NewClient(httpClient, rateLimitProxy, cfg.OpenSea.URL, cfg.OpenSea.APIKey, cfg.OpenSea.PageSize, jsonAdapter)

	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect event publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))
	}

	var syncer ingest.Syncer = ingest.NewSyncer(dataStore, openseaClient, publisher, clock, cfg.Ingest)

	// Fan the collection syncs out to the worker when a Temporal cluster is configured
	if cfg.Temporal.Enabled() {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
		}
		defer temporalClient.Close()

		syncer = workflows.NewTrigger(temporalClient, nil, syncer, workflows.TriggerConfig{
			TaskQueue:   cfg.Temporal.TaskQueue,
			SyncTimeout: cfg.Temporal.SyncTimeout,
		})
		logger.InfoCtx(ctx, "Syncing through Temporal", zap.String("task_queue", cfg.Temporal.TaskQueue))
	}

	if *once {
		if err := syncer.SyncAll(ctx); err != nil {
			logger.FatalCtx(ctx, "Sync failed", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Sync completed")
		return
	}

	syncScheduler := scheduler.NewSyncScheduler(cfg.Sync, syncer, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := syncScheduler.Start(ctx); err != nil {
			errCh <- err
		}
	}()
	logger.InfoCtx(ctx, "Sync scheduler started",
		zap.String("schedule", cfg.Sync.Schedule),
		zap.Bool("run_on_start", cfg.Sync.RunOnStart),
	)

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", syncScheduler.Name()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := syncScheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", syncScheduler.Name()))
	}
	cancel()

	logger.Info("Syncer stopped")
}
