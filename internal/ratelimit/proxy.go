package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/logger"
)

const healthCheckInterval = 10 * time.Second

// ErrProxyClosed is returned for requests submitted after Close
var ErrProxyClosed = errors.New("rate limit proxy is closed")

// RequestFunc performs one upstream call once a token has been acquired
type RequestFunc func(ctx context.Context) (interface{}, error)

type requestResult struct {
	value interface{}
	err   error
}

// Proxy serializes upstream calls through per-provider budgets shared across processes
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request blocks until a token of the provider is acquired, then runs fn
	Request(ctx context.Context, provider string, fn RequestFunc) (interface{}, error)

	// Close stops accepting requests and waits for in-flight ones
	Close() error
}

type proxy struct {
	config         config.RateLimiterConfig
	pool           pond.ResultPool[*requestResult]
	limiters       map[string]*providerLimiter
	redis          adapter.RedisClient
	clock          adapter.Clock
	redisAvailable atomic.Bool
	closed         atomic.Bool
	closeOnce      sync.Once
	done           chan struct{}
}

type providerLimiter struct {
	name        string
	config      config.RateLimitConfig
	distributed adapter.RedisRateLimiter
	local       *rate.Limiter
	preFilter   *rate.Limiter
}

// NewProxy creates a rate limit proxy. A nil Redis client runs the proxy on local limiters only.
func NewProxy(cfg config.RateLimiterConfig, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := normalizeConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid rate limiter configuration: %w", err)
	}

	var distributed adapter.RedisRateLimiter
	redisAvailable := false
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Ping(ctx)
		cancel()

		switch {
		case err == nil:
			redisAvailable = true
		case !cfg.EnableLocalFallback:
			return nil, fmt.Errorf("redis unavailable and local fallback disabled: %w", err)
		default:
			logger.Warn("Redis unavailable, using local rate limiters", zap.Error(err))
		}
		distributed = rc.NewRateLimiter()
	} else if !cfg.EnableLocalFallback {
		return nil, fmt.Errorf("no redis client and local fallback disabled")
	}

	limiters := make(map[string]*providerLimiter, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		localRate := max(float64(pc.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)
		limiters[name] = &providerLimiter{
			name:        name,
			config:      pc,
			distributed: distributed,
			local:       rate.NewLimiter(rate.Limit(localRate), pc.Burst),
			preFilter:   rate.NewLimiter(rate.Limit(pc.RequestsPerSecond), pc.Burst),
		}
	}

	p := &proxy{
		config:   cfg,
		pool:     pond.NewResultPool[*requestResult](cfg.MaxWorkers, pond.WithQueueSize(cfg.MaxQueueSize)),
		limiters: limiters,
		redis:    rc,
		clock:    clock,
		done:     make(chan struct{}),
	}
	p.redisAvailable.Store(redisAvailable)

	if rc != nil {
		go p.monitorRedisHealth()
	}

	logger.Info("Rate limit proxy initialized",
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("max_queue_size", cfg.MaxQueueSize),
		zap.Int("providers", len(cfg.Providers)),
		zap.Bool("redis", redisAvailable),
	)

	return p, nil
}

// Request runs fn through the proxy and returns its typed result. A nil proxy calls fn directly.
func Request[T any](ctx context.Context, p Proxy, provider string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, provider, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func (p *proxy) Request(ctx context.Context, provider string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[provider]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not configured", provider)
	}

	task := p.pool.Submit(func() *requestResult {
		value, err := p.execute(ctx, limiter, fn)
		return &requestResult{value: value, err: err}
	})

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}
	return result.value, result.err
}

// execute waits at most MaxQueueTime for a token, then runs fn with the caller's context
func (p *proxy) execute(ctx context.Context, limiter *providerLimiter, fn RequestFunc) (interface{}, error) {
	queueCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	err := p.acquireToken(queueCtx, limiter)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s rate limit token: %w", limiter.name, err)
	}
	return fn(ctx)
}

func (p *proxy) acquireToken(ctx context.Context, limiter *providerLimiter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !p.redisAvailable.Load() {
			if !p.config.EnableLocalFallback {
				return fmt.Errorf("redis rate limiter unavailable")
			}
			return limiter.local.Wait(ctx)
		}

		retryAfter, err := p.tryDistributed(ctx, limiter)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.redisAvailable.Store(false)
			logger.Warn("Redis rate limiter error, switching to local limiter",
				zap.String("provider", limiter.name),
				zap.Error(err),
			)
			continue
		}
		if retryAfter == 0 {
			return nil
		}

		// spread retries over 50-150% of the advertised delay
		jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(jitter):
		}
	}
}

// tryDistributed returns zero when a token was granted, or how long to wait otherwise
func (p *proxy) tryDistributed(ctx context.Context, limiter *providerLimiter) (time.Duration, error) {
	if err := limiter.preFilter.Wait(ctx); err != nil {
		return 0, err
	}

	key := p.config.RedisKeyPrefix + limiter.name
	limit := redis_rate.Limit{
		Rate:   limiter.config.RequestsPerSecond,
		Burst:  limiter.config.Burst,
		Period: time.Second,
	}
	res, err := limiter.distributed.Allow(ctx, key, limit)
	if err != nil {
		return 0, err
	}
	if res.Allowed > 0 {
		return 0, nil
	}

	logger.Debug("Rate limit token unavailable",
		zap.String("provider", limiter.name),
		zap.Duration("retry_after", res.RetryAfter),
	)
	if res.RetryAfter <= 0 {
		return 100 * time.Millisecond, nil
	}
	return res.RetryAfter, nil
}

func (p *proxy) monitorRedisHealth() {
	for {
		select {
		case <-p.done:
			return
		case <-p.clock.After(healthCheckInterval):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := p.redis.Ping(ctx)
		cancel()

		wasAvailable := p.redisAvailable.Swap(err == nil)
		if !wasAvailable && err == nil {
			logger.Info("Redis rate limiter restored")
		}
	}
}

func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)

		p.pool.StopAndWait()

		if p.redis != nil {
			if closeErr := p.redis.Close(); closeErr != nil {
				logger.Warn("Error closing Redis connection", zap.Error(closeErr))
				err = closeErr
			}
		}
		logger.Info("Rate limit proxy stopped")
	})
	return err
}

// normalizeConfig validates providers and fills defaults
func normalizeConfig(cfg *config.RateLimiterConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	providers := make(map[string]config.RateLimitConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if pc.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if pc.Burst <= 0 {
			pc.Burst = pc.RequestsPerSecond
		}
		if pc.MaxQueueTime <= 0 {
			pc.MaxQueueTime = 2 * time.Minute
		}
		providers[name] = pc
	}
	cfg.Providers = providers

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "nft-valuation:limiter:"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU() * 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 1000
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}
	return nil
}
