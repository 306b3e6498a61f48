package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/valuation"
)

const (
	defaultSize = 10000
	defaultTTL  = 10 * time.Minute
)

// Key identifies a cached token profile
type Key struct {
	Collection string
	TokenID    int64
}

// PriceCache is a bounded, expiring cache of price profiles
type PriceCache struct {
	lru *expirable.LRU[Key, *valuation.PriceProfile]
}

// NewPriceCache creates a cache holding at most size profiles for ttl each
func NewPriceCache(size int, ttl time.Duration) *PriceCache {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PriceCache{lru: expirable.NewLRU[Key, *valuation.PriceProfile](size, nil, ttl)}
}

// Get returns a deep copy of the cached profile
func (c *PriceCache) Get(key Key) (*valuation.PriceProfile, bool) {
	profile, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return profile.Clone(), true
}

// Add stores a deep copy of the profile
func (c *PriceCache) Add(key Key, profile *valuation.PriceProfile) {
	c.lru.Add(key, profile.Clone())
}

// InvalidateCollection drops every cached profile of a collection and returns how many were dropped
func (c *PriceCache) InvalidateCollection(slug string) int {
	removed := 0
	for _, key := range c.lru.Keys() {
		if key.Collection == slug && c.lru.Remove(key) {
			removed++
		}
	}
	return removed
}

// Len returns the number of cached profiles
func (c *PriceCache) Len() int {
	return c.lru.Len()
}

// CachedValuer serves price profiles from a PriceCache and delegates everything else
type CachedValuer struct {
	valuation.Valuer
	cache *PriceCache
}

// NewCachedValuer wraps a valuer with a price profile cache
func NewCachedValuer(next valuation.Valuer, cache *PriceCache) *CachedValuer {
	return &CachedValuer{Valuer: next, cache: cache}
}

// PriceProfile returns the cached profile or computes and caches it
func (v *CachedValuer) PriceProfile(ctx context.Context, slug string, tokenID int64) (*valuation.PriceProfile, error) {
	key := Key{Collection: slug, TokenID: tokenID}
	if profile, ok := v.cache.Get(key); ok {
		return profile, nil
	}

	profile, err := v.Valuer.PriceProfile(ctx, slug, tokenID)
	if err != nil {
		return nil, err
	}
	v.cache.Add(key, profile)
	return profile, nil
}

// HandleEvent invalidates the cached profiles of the collection the event refers to
func (v *CachedValuer) HandleEvent(ctx context.Context, event *domain.CollectionEvent) error {
	removed := v.cache.InvalidateCollection(event.Slug)
	logger.InfoCtx(ctx, "Invalidated price cache",
		logger.Collection(event.Slug),
		zap.String("event", string(event.Type)),
		zap.Int("removed", removed),
	)
	return nil
}
