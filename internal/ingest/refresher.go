package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// Refresher refetches the sell orders of a single asset and appends the result to the listing log
type Refresher struct {
	store  store.Store
	client opensea.Client
	clock  adapter.Clock
}

// NewRefresher creates a listing refresher
func NewRefresher(st store.Store, client opensea.Client, clock adapter.Clock) *Refresher {
	return &Refresher{store: st, client: client, clock: clock}
}

// RefreshListing records the current cheapest sell order of a token, or a priceless
// cancellation when the token is no longer listed, and returns the new latest listing
func (r *Refresher) RefreshListing(ctx context.Context, collection domain.CollectionConfig, tokenID int64) (*domain.Listing, error) {
	asset, err := r.client.GetAsset(ctx, collection.Slug, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: %s #%d", domain.ErrTokenNotFound, collection.Slug, tokenID)
	}

	listing := domain.Listing{
		TokenID:   tokenID,
		Type:      domain.UpdateTypeCancelled,
		Timestamp: r.clock.Now(),
	}
	if order, price := asset.CheapestSellOrder(); order != nil {
		listing.Type = domain.UpdateTypeSellOrder
		listing.Price = &price
	}

	if err := r.store.CreateListings(ctx, []schema.Listing{schemaListing(collection.Slug, listing)}); err != nil {
		return nil, fmt.Errorf("failed to store refreshed listing: %w", err)
	}

	logger.DebugCtx(ctx, "Refreshed listing",
		logger.Collection(collection.Slug),
		logger.TokenID(tokenID),
		zap.Bool("listed", listing.Listed()),
	)
	return &listing, nil
}
