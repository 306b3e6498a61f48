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
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/messaging"
	"github.com/feral-file/nft-valuation/internal/overlap"
	"github.com/feral-file/nft-valuation/internal/providers/jetstream"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/providers/temporal"
	"github.com/feral-file/nft-valuation/internal/ratelimit"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
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
			"service": "worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ingestion worker")

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
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, ingestion events are not published")
	}

	// Initialize executor for activities
	syncer := ingest.NewSyncer(dataStore, openseaClient, publisher, clock, cfg.Ingest)
	pipeline := ingest.NewIngestor(
		dataStore,
		openseaClient,
		overlap.NewPreprocessor(cfg.Ingest.OverlapChunks),
		syncer,
		publisher,
		clock,
		jsonAdapter,
		cfg.Ingest,
	)
	executor := workflows.NewExecutor(pipeline, syncer, dataStore)

	// Connect to Temporal with logger integration
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
	}
	defer temporalClient.Close()
	logger.InfoCtx(ctx, "Connected to Temporal",
		zap.String("host_port", cfg.Temporal.HostPort),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	// Create Temporal worker with the Sentry interceptor
	temporalWorker := worker.New(temporalClient,
		cfg.Temporal.TaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			MaxConcurrentActivityTaskPollers:   cfg.Temporal.MaxConcurrentActivityTaskPollers,
			Interceptors: []interceptor.WorkerInterceptor{
				temporal.NewSentryActivityInterceptor(),
			},
		})

	workerCore := workflows.NewWorkerCore(executor, workflows.WorkerCoreConfig{
		SnapshotAttempts: cfg.Temporal.SnapshotAttempts,
		SyncConcurrency:  cfg.Temporal.SyncConcurrency,
	})

	// Register workflows
	temporalWorker.RegisterWorkflow(workerCore.IngestCollection)
	temporalWorker.RegisterWorkflow(workerCore.SyncCollections)
	logger.InfoCtx(ctx, "Registered workflows")

	// Register activities
	temporalWorker.RegisterActivity(executor.SnapshotCollection)
	temporalWorker.RegisterActivity(executor.BackfillEvents)
	temporalWorker.RegisterActivity(executor.AnnounceIngested)
	temporalWorker.RegisterActivity(executor.ListCollectionSlugs)
	temporalWorker.RegisterActivity(executor.SyncCollection)
	logger.InfoCtx(ctx, "Registered activities")

	// Start worker
	if err := temporalWorker.Start(); err != nil {
		logger.FatalCtx(ctx, "Failed to start worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Worker started and listening for tasks", zap.String("taskQueue", cfg.Temporal.TaskQueue))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down worker...")
	temporalWorker.Stop()
	logger.Info("Worker stopped")
}
