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
	"github.com/feral-file/nft-valuation/internal/api/middleware"
	"github.com/feral-file/nft-valuation/internal/api/server"
	"github.com/feral-file/nft-valuation/internal/cache"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/messaging"
	"github.com/feral-file/nft-valuation/internal/providers/jetstream"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/providers/temporal"
	"github.com/feral-file/nft-valuation/internal/ratelimit"
	"github.com/feral-file/nft-valuation/internal/registry"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/valuation"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "valuation-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting NFT valuation API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.RegisterReadReplica(db, cfg.Database.ReadDSN()); err != nil {
		logger.FatalCtx(ctx, "Failed to configure read replica", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Bool("read_replica", cfg.Database.ReadHost != ""),
	)

	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(30 * time.Second)

	// Rate limited marketplace client
	redisClient := adapter.NewRedisClient(cfg.Redis)
	defer func() { _ = redisClient.Close() }()
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() { _ = rateLimitProxy.Close() }()
	openseaClient := opensea.NewClient(httpClient, rateLimitProxy, cfg.OpenSea.URL, cfg.OpenSea.APIKey, cfg.OpenSea.PageSize, jsonAdapter)

	// Curated prices
	var customPrices valuation.CustomPriceSource
	if cfg.CustomPricesFile != "" {
		loaded, err := registry.NewCustomPriceLoader(fs, jsonAdapter).Load(cfg.CustomPricesFile)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load custom prices", zap.Error(err), zap.String("path", cfg.CustomPricesFile))
		}
		customPrices = loaded
		logger.InfoCtx(ctx, "Loaded custom prices", zap.Int("count", loaded.Len()))
	}

	// Event bus: the publisher announces admin-triggered changes, the subscriber invalidates cached profiles
	natsJS := adapter.NewNatsJetStream()
	natsCfg := jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}
	var publisher messaging.Publisher
	var subscriber messaging.Subscriber
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, natsCfg, natsJS, jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect event publisher", zap.Error(err))
		}
		defer publisher.Close()

		subscriber, err = jetstream.NewSubscriber(ctx, natsCfg, natsJS, jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect event subscriber", zap.Error(err))
		}
		defer subscriber.Close()
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, cached profiles expire by TTL only")
	}

	// Valuation engine with listing refresh and profile cache
	refresher := ingest.NewRefresher(dataStore, openseaClient, clock)
	engine := valuation.NewEngine(dataStore, refresher, customPrices, clock, cfg.Valuation)
	cachedValuer := cache.NewCachedValuer(engine, cache.NewPriceCache(cfg.Cache.Size, cfg.Cache.TTL))

	// Admin collection lifecycle
	syncer := ingest.NewSyncer(dataStore, openseaClient, publisher, clock, cfg.Ingest)
	var ingestor ingest.Ingestor = ingest.NewIngestor(dataStore, openseaClient, nil, syncer, publisher, clock, jsonAdapter, cfg.Ingest)

	// Run admin ingestions on the worker when a Temporal cluster is configured
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
		logger.InfoCtx(ctx, "Connected to Temporal", zap.String("host_port", cfg.Temporal.HostPort))

		ingestor = workflows.NewTrigger(temporalClient, ingestor, syncer, workflows.TriggerConfig{
			TaskQueue:     cfg.Temporal.TaskQueue,
			IngestTimeout: cfg.Temporal.IngestTimeout,
			SyncTimeout:   cfg.Temporal.SyncTimeout,
		})
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, cachedValuer, ingestor)

	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()
	if subscriber != nil {
		go func() {
			if err := subscriber.Subscribe(ctx, cachedValuer.HandleEvent); err != nil {
				errCh <- fmt.Errorf("event subscriber stopped: %w", err)
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
