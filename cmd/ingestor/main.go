package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
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
	"github.com/feral-file/nft-valuation/internal/overlap"
	"github.com/feral-file/nft-valuation/internal/providers/jetstream"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/providers/temporal"
	"github.com/feral-file/nft-valuation/internal/ratelimit"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/workflows"
)

var (
	configFile       = flag.String("config", "", "Path to configuration file")
	envPath          = flag.String("env", "config/", "Path to environment files")
	slug             = flag.String("slug", "", "Marketplace slug of the collection to ingest")
	rarityMultiplier = flag.Float64("rarity-multiplier", 0, "Rarity cutoff multiplier (default from config)")
	ignoreRarity     = flag.String("ignore-rarity", "", "Comma separated trait types excluded from rarity")
	ignoreOverlap    = flag.String("ignore-overlap", "", "Comma separated trait types excluded from overlaps")
	purge            = flag.Bool("purge", false, "Delete the collection instead of ingesting it")
	inProcess        = flag.Bool("in-process", false, "Ingest in this process even when Temporal is configured")
)

func main() {
	flag.Parse()

	if strings.TrimSpace(*slug) == "" {
		fmt.Fprintln(os.Stderr, "-slug is required")
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngestorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Cancel the run on interrupt; the snapshot swap is transactional
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ingestor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

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
	}

	syncer := ingest.NewSyncer(dataStore, openseaClient, publisher, clock, cfg.Ingest)
	var ingestor ingest.Ingestor = ingest.NewIngestor(
		dataStore,
		openseaClient,
		overlap.NewPreprocessor(cfg.Ingest.OverlapChunks),
		syncer,
		publisher,
		clock,
		jsonAdapter,
		cfg.Ingest,
	)

	// Hand the run to the worker when a Temporal cluster is configured
	if cfg.Temporal.Enabled() && !*inProcess {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
		}
		defer temporalClient.Close()

		ingestor = workflows.NewTrigger(temporalClient, ingestor, syncer, workflows.TriggerConfig{
			TaskQueue:     cfg.Temporal.TaskQueue,
			IngestTimeout: cfg.Temporal.IngestTimeout,
			SyncTimeout:   cfg.Temporal.SyncTimeout,
		})
		logger.InfoCtx(ctx, "Ingesting through Temporal",
			zap.String("host_port", cfg.Temporal.HostPort),
			zap.String("task_queue", cfg.Temporal.TaskQueue),
		)
	}

	if *purge {
		if err := ingestor.PurgeCollection(ctx, *slug); err != nil {
			logger.FatalCtx(ctx, "Failed to purge collection", zap.Error(err), logger.Collection(*slug))
		}
		logger.InfoCtx(ctx, "Collection purged", logger.Collection(*slug))
		return
	}

	req := ingest.IngestRequest{
		Slug:                     *slug,
		IgnoredTraitTypesRarity:  splitList(*ignoreRarity),
		IgnoredTraitTypesOverlap: splitList(*ignoreOverlap),
	}
	if *rarityMultiplier > 0 {
		req.RarityMultiplier = rarityMultiplier
	}

	result, err := ingestor.IngestCollection(ctx, req)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to ingest collection", zap.Error(err), logger.Collection(*slug))
	}

	logger.InfoCtx(ctx, "Collection ingested",
		zap.String("run_id", result.RunID),
		logger.Collection(result.Slug),
		zap.Int64("total_supply", result.TotalSupply),
		zap.Int("traits", result.Traits),
		zap.Int("tokens", result.Tokens),
		zap.Int("listings", result.Listings),
		zap.Float64("rarity_cutoff", result.RarityCutoff),
		zap.Bool("overlaps_complete", result.OverlapsComplete),
	)
}

// splitList parses a comma separated flag; nil keeps the configured default
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
