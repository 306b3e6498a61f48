package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// RedisConfig holds the Redis connection used by the distributed rate limiter
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig is the budget of a single upstream provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds the rate limit proxy configuration
type RateLimiterConfig struct {
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	Providers               map[string]RateLimitConfig `mapstructure:"providers"`
}

// OpenSeaConfig holds the marketplace API configuration
type OpenSeaConfig struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	PageSize int    `mapstructure:"page_size"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// ValuationConfig tunes the request-time valuation engine
type ValuationConfig struct {
	// ListingRefreshTimeout is the age after which a stored listing is considered stale
	ListingRefreshTimeout time.Duration `mapstructure:"listing_refresh_timeout"`
	// ListingRefreshCallTimeout bounds a single refetch from the marketplace
	ListingRefreshCallTimeout time.Duration `mapstructure:"listing_refresh_call_timeout"`
	// MaxListingRefreshes caps how many stale listings are refetched per trait floor query
	MaxListingRefreshes int `mapstructure:"max_listing_refreshes"`
	// QueryConcurrency bounds in-flight storage sub-queries per profile
	QueryConcurrency    int `mapstructure:"query_concurrency"`
	SaleWindowDays      int `mapstructure:"sale_window_days"`
	FrequencyWindowDays int `mapstructure:"frequency_window_days"`
	MVTSalesCount       int `mapstructure:"mvt_sales_count"`
}

// IngestConfig holds collection ingestion defaults
type IngestConfig struct {
	DefaultRarityMultiplier  float64       `mapstructure:"default_rarity_multiplier"`
	DefaultIgnoredTraitTypes []string      `mapstructure:"default_ignored_trait_types"`
	EventsBackfill           time.Duration `mapstructure:"events_backfill"`
	OverlapChunks            int           `mapstructure:"overlap_chunks"`
}

// CacheConfig holds the price profile cache configuration
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// TemporalConfig holds the Temporal connection and worker settings. An empty
// HostPort runs ingestion in process instead of as workflows.
type TemporalConfig struct {
	HostPort                           string        `mapstructure:"host_port"`
	Namespace                          string        `mapstructure:"namespace"`
	TaskQueue                          string        `mapstructure:"task_queue"`
	MaxConcurrentActivityExecutionSize int           `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64       `mapstructure:"worker_activities_per_second"`
	MaxConcurrentActivityTaskPollers   int           `mapstructure:"max_concurrent_activity_task_pollers"`
	IngestTimeout                      time.Duration `mapstructure:"ingest_timeout"`
	SyncTimeout                        time.Duration `mapstructure:"sync_timeout"`
	SnapshotAttempts                   int32         `mapstructure:"snapshot_attempts"`
	SyncConcurrency                    int           `mapstructure:"sync_concurrency"`
}

// Enabled reports whether a Temporal cluster is configured
func (c *TemporalConfig) Enabled() bool {
	return c.HostPort != ""
}

// SyncConfig holds the event sync schedule
type SyncConfig struct {
	Schedule   string `mapstructure:"schedule"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig       `mapstructure:",squash"`
	Server           ServerConfig      `mapstructure:"server"`
	Database         DatabaseConfig    `mapstructure:"database"`
	Auth             AuthConfig        `mapstructure:"auth"`
	Redis            RedisConfig       `mapstructure:"redis"`
	NATS             NATSConfig        `mapstructure:"nats"`
	OpenSea          OpenSeaConfig     `mapstructure:"opensea"`
	RateLimiter      RateLimiterConfig `mapstructure:"ratelimit"`
	Valuation        ValuationConfig   `mapstructure:"valuation"`
	Ingest           IngestConfig      `mapstructure:"ingest"`
	Cache            CacheConfig       `mapstructure:"cache"`
	Temporal         TemporalConfig    `mapstructure:"temporal"`
	CustomPricesFile string            `mapstructure:"custom_prices_file"`
}

// IngestorConfig holds configuration for the one-shot collection ingestor
type IngestorConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	OpenSea     OpenSeaConfig     `mapstructure:"opensea"`
	RateLimiter RateLimiterConfig `mapstructure:"ratelimit"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Temporal    TemporalConfig    `mapstructure:"temporal"`
}

// SyncerConfig holds configuration for the event syncer
type SyncerConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	OpenSea     OpenSeaConfig     `mapstructure:"opensea"`
	RateLimiter RateLimiterConfig `mapstructure:"ratelimit"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Sync        SyncConfig        `mapstructure:"sync"`
	Temporal    TemporalConfig    `mapstructure:"temporal"`
}

// WorkerConfig holds configuration for the Temporal worker running the ingestion and sync workflows
type WorkerConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	OpenSea     OpenSeaConfig     `mapstructure:"opensea"`
	RateLimiter RateLimiterConfig `mapstructure:"ratelimit"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Temporal    TemporalConfig    `mapstructure:"temporal"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("nats.consumer_name", "valuation-api")
	v.SetDefault("valuation.listing_refresh_timeout", "2h")
	v.SetDefault("valuation.listing_refresh_call_timeout", "5s")
	v.SetDefault("valuation.max_listing_refreshes", 3)
	v.SetDefault("valuation.query_concurrency", 6)
	v.SetDefault("valuation.sale_window_days", 60)
	v.SetDefault("valuation.frequency_window_days", 30)
	v.SetDefault("valuation.mvt_sales_count", 3)
	v.SetDefault("cache.size", 10000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("custom_prices_file", "config/custom_prices.json")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadIngestorConfig loads configuration for the ingestor
func LoadIngestorConfig(configFile string, envPath string) (*IngestorConfig, error) {
	v := configureViper("ingestor", configFile, envPath)

	setCommonDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config IngestorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadSyncerConfig loads configuration for the event syncer
func LoadSyncerConfig(configFile string, envPath string) (*SyncerConfig, error) {
	v := configureViper("syncer", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("sync.schedule", "@every 10m")
	v.SetDefault("sync.run_on_start", true)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg SyncerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// LoadWorkerConfig loads configuration for the Temporal worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 8)
	v.SetDefault("temporal.worker_activities_per_second", 10)
	v.SetDefault("temporal.max_concurrent_activity_task_pollers", 2)
	v.SetDefault("temporal.snapshot_attempts", 3)
	v.SetDefault("temporal.sync_concurrency", 4)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !cfg.Temporal.Enabled() {
		return nil, errors.New("temporal.host_port is required")
	}

	return &cfg, nil
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "VALUATION_EVENTS")
	v.SetDefault("opensea.url", "https://api.opensea.io/api/v1")
	v.SetDefault("opensea.page_size", 50)
	v.SetDefault("ratelimit.enable_local_fallback", true)
	v.SetDefault("ratelimit.local_fallback_multiplier", 0.5)
	v.SetDefault("ratelimit.providers.opensea.requests_per_second", 2)
	v.SetDefault("ratelimit.providers.opensea.burst", 2)
	v.SetDefault("ratelimit.providers.opensea.max_queue_time", "2m")
	v.SetDefault("ingest.default_rarity_multiplier", 1.0)
	v.SetDefault("ingest.default_ignored_trait_types", []string{"serial"})
	v.SetDefault("ingest.events_backfill", "336h") // 14 days
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "valuation-ingest")
	v.SetDefault("temporal.ingest_timeout", "3h")
	v.SetDefault("temporal.sync_timeout", "2h")
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("NFT_VALUATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// OpenSea
		"opensea.url",
		"opensea.api_key",
		"opensea.page_size",
		// Rate limiter
		"ratelimit.redis_key_prefix",
		"ratelimit.max_workers",
		"ratelimit.max_queue_size",
		"ratelimit.enable_local_fallback",
		"ratelimit.local_fallback_multiplier",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Valuation
		"valuation.listing_refresh_timeout",
		"valuation.listing_refresh_call_timeout",
		"valuation.max_listing_refreshes",
		"valuation.query_concurrency",
		"valuation.sale_window_days",
		"valuation.frequency_window_days",
		"valuation.mvt_sales_count",
		// Ingest
		"ingest.default_rarity_multiplier",
		"ingest.default_ignored_trait_types",
		"ingest.events_backfill",
		"ingest.overlap_chunks",
		// Cache
		"cache.size",
		"cache.ttl",
		// Temporal
		"temporal.host_port",
		"temporal.namespace",
		"temporal.task_queue",
		"temporal.max_concurrent_activity_execution_size",
		"temporal.worker_activities_per_second",
		"temporal.max_concurrent_activity_task_pollers",
		"temporal.ingest_timeout",
		"temporal.sync_timeout",
		"temporal.snapshot_attempts",
		"temporal.sync_concurrency",
		// Sync
		"sync.schedule",
		"sync.run_on_start",
		"custom_prices_file",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadHost is empty the replica is disabled and an empty string is returned.
func (c *DatabaseConfig) ReadDSN() string {
	if c.ReadHost == "" {
		return ""
	}

	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
