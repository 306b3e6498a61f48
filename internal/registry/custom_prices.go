package registry

import (
	"fmt"
	"strconv"

	"github.com/feral-file/nft-valuation/internal/adapter"
)

// CustomPriceRegistry defines the interface for curated price lookups
//
//go:generate mockgen -source=custom_prices.go -destination=../mocks/custom_price_registry.go -package=mocks -mock_names=CustomPriceRegistry=MockCustomPriceRegistry
type CustomPriceRegistry interface {
	// CustomPrice returns the curated price of a token, if any
	CustomPrice(slug string, tokenID int64) (float64, bool)

	// Len returns the number of curated prices
	Len() int
}

// CustomPriceData represents the structure of the custom prices file
// Key format: collection slug -> token id -> price in ETH
type CustomPriceData map[string]map[string]float64

type customPrices struct {
	// Fast lookup map: slug -> token id -> price
	prices map[string]map[int64]float64
}

// CustomPriceLoader loads curated prices through the filesystem and JSON adapters
type CustomPriceLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewCustomPriceLoader creates a custom price loader
func NewCustomPriceLoader(fs adapter.FileSystem, json adapter.JSON) *CustomPriceLoader {
	return &CustomPriceLoader{fs: fs, json: json}
}

// Load reads the curated prices from a JSON file. A missing file yields an empty registry.
func (l *CustomPriceLoader) Load(filePath string) (CustomPriceRegistry, error) {
	registry := &customPrices{prices: make(map[string]map[int64]float64)}
	if filePath == "" {
		return registry, nil
	}

	exists, err := l.fs.Exists(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check custom prices file: %w", err)
	}
	if !exists {
		return registry, nil
	}

	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom prices file: %w", err)
	}

	var priceData CustomPriceData
	if err := l.json.Unmarshal(data, &priceData); err != nil {
		return nil, fmt.Errorf("failed to parse custom prices JSON: %w", err)
	}

	for slug, tokens := range priceData {
		byID := make(map[int64]float64, len(tokens))
		for rawID, price := range tokens {
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q for collection %s: %w", rawID, slug, err)
			}
			if price <= 0 {
				return nil, fmt.Errorf("invalid custom price %v for %s/%s", price, slug, rawID)
			}
			byID[id] = price
		}
		registry.prices[slug] = byID
	}

	return registry, nil
}

// CustomPrice returns the curated price of a token, if any
func (r *customPrices) CustomPrice(slug string, tokenID int64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	price, ok := r.prices[slug][tokenID]
	return price, ok
}

// Len returns the number of curated prices
func (r *customPrices) Len() int {
	n := 0
	for _, tokens := range r.prices {
		n += len(tokens)
	}
	return n
}
