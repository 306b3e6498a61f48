package valuation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// ListingRefresher refetches the current listing of a single token from the marketplace
// and records it. A returned listing with a nil price means the token is no longer listed.
//
//go:generate mockgen -source=listings.go -destination=../mocks/listing_refresher.go -package=mocks -mock_names=ListingRefresher=MockListingRefresher
type ListingRefresher interface {
	RefreshListing(ctx context.Context, collection domain.CollectionConfig, tokenID int64) (*domain.Listing, error)
}

// FloorPoint is the floor of a trait as of the end of a day
type FloorPoint struct {
	Date  time.Time `json:"date"`
	Floor *float64  `json:"floor"`
}

// ListingResolver derives the current listing state of tokens from the listing event log
type ListingResolver struct {
	store     store.Store
	refresher ListingRefresher
	clock     adapter.Clock
	cfg       config.ValuationConfig
}

// NewListingResolver creates a resolver. A nil refresher disables stale listing refetches.
func NewListingResolver(st store.Store, refresher ListingRefresher, clock adapter.Clock, cfg config.ValuationConfig) *ListingResolver {
	return &ListingResolver{
		store:     st,
		refresher: refresher,
		clock:     clock,
		cfg:       cfg,
	}
}

// ListedTokens returns the tokens holding the trait that are currently listed, cheapest first.
// The cheapest stale listings are refetched before being trusted; a failed refetch keeps the stored value.
func (r *ListingResolver) ListedTokens(ctx context.Context, collection domain.CollectionConfig, traitID domain.TraitID) ([]domain.ListedToken, error) {
	listed, err := r.TraitListings(ctx, collection, []domain.TraitID{traitID})
	if err != nil {
		return nil, err
	}
	return listed[traitID], nil
}

// TraitListings resolves the current listings of several traits within one request.
// A stale token is refetched at most once however many of the traits it holds, and at most
// MaxListingRefreshes tokens are refetched in total. Refetch candidates are picked round-robin
// over the traits in the given order, cheapest stale listing first.
func (r *ListingResolver) TraitListings(ctx context.Context, collection domain.CollectionConfig, traitIDs []domain.TraitID) (map[domain.TraitID][]domain.ListedToken, error) {
	now := r.clock.Now()
	stored := make([][]domain.ListedToken, len(traitIDs))
	tasks := make([]task, len(traitIDs))
	for i, traitID := range traitIDs {
		tasks[i] = func(ctx context.Context) error {
			rows, err := r.store.GetLatestListingsForTrait(ctx, collection.Slug, traitID.String(), now)
			if err != nil {
				return fmt.Errorf("failed to get listings for trait %s: %w", traitID, err)
			}
			stored[i] = listedTokens(rows)
			return nil
		}
	}
	if err := fanOut(ctx, r.cfg.QueryConcurrency, tasks...); err != nil {
		return nil, err
	}

	refreshed := r.refreshStale(ctx, collection, now, stored)

	result := make(map[domain.TraitID][]domain.ListedToken, len(traitIDs))
	for i, traitID := range traitIDs {
		out := make([]domain.ListedToken, 0, len(stored[i]))
		for _, lt := range stored[i] {
			outcome, ok := refreshed[lt.TokenID]
			if !ok {
				out = append(out, lt)
				continue
			}
			if outcome.listed {
				out = append(out, outcome.current)
			}
		}
		sortListed(out)
		result[traitID] = out
	}
	return result, nil
}

// TraitFloor returns the cheapest currently listed token holding the trait; nil when none is listed
func (r *ListingResolver) TraitFloor(ctx context.Context, collection domain.CollectionConfig, traitID domain.TraitID) (*domain.ListedToken, error) {
	listed, err := r.ListedTokens(ctx, collection, traitID)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, nil
	}
	return &listed[0], nil
}

// TraitFloors returns the floor of every trait, resolved together so that shared stale listings
// are refetched once. Traits with nothing listed are absent from the map.
func (r *ListingResolver) TraitFloors(ctx context.Context, collection domain.CollectionConfig, traitIDs []domain.TraitID) (map[domain.TraitID]domain.ListedToken, error) {
	listings, err := r.TraitListings(ctx, collection, traitIDs)
	if err != nil {
		return nil, err
	}
	floors := make(map[domain.TraitID]domain.ListedToken, len(listings))
	for traitID, listed := range listings {
		if len(listed) > 0 {
			floors[traitID] = listed[0]
		}
	}
	return floors, nil
}

type refreshOutcome struct {
	current domain.ListedToken
	listed  bool
	done    bool
}

// refreshStale picks the stale listings to refetch and refetches each token once
func (r *ListingResolver) refreshStale(ctx context.Context, collection domain.CollectionConfig, now time.Time, stored [][]domain.ListedToken) map[int64]refreshOutcome {
	if r.refresher == nil || r.cfg.MaxListingRefreshes <= 0 {
		return nil
	}

	stale := make([][]domain.ListedToken, len(stored))
	for i, listed := range stored {
		for _, lt := range listed {
			if now.Sub(lt.Timestamp) > r.cfg.ListingRefreshTimeout {
				stale[i] = append(stale[i], lt)
			}
		}
	}

	var candidates []domain.ListedToken
	seen := make(map[int64]bool)
	for round := 0; len(candidates) < r.cfg.MaxListingRefreshes; round++ {
		more := false
		for _, listed := range stale {
			if round >= len(listed) {
				continue
			}
			more = true
			lt := listed[round]
			if seen[lt.TokenID] || len(candidates) >= r.cfg.MaxListingRefreshes {
				continue
			}
			seen[lt.TokenID] = true
			candidates = append(candidates, lt)
		}
		if !more {
			break
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	outcomes := make([]refreshOutcome, len(candidates))
	tasks := make([]task, len(candidates))
	for i, lt := range candidates {
		tasks[i] = func(ctx context.Context) error {
			current, listed := r.refresh(ctx, collection, lt)
			outcomes[i] = refreshOutcome{current: current, listed: listed, done: true}
			return nil
		}
	}
	// refresh never fails; a failed refetch keeps the stored listing
	_ = fanOut(ctx, r.cfg.QueryConcurrency, tasks...)

	refreshed := make(map[int64]refreshOutcome, len(candidates))
	for i, lt := range candidates {
		if outcomes[i].done {
			refreshed[lt.TokenID] = outcomes[i]
		}
	}
	return refreshed
}

// CountListed counts the tokens holding the trait whose stored listing carries a price. No refetch is made.
func (r *ListingResolver) CountListed(ctx context.Context, collection domain.CollectionConfig, traitID domain.TraitID) (int64, error) {
	rows, err := r.store.GetLatestListingsForTrait(ctx, collection.Slug, traitID.String(), r.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to count listings for trait %s: %w", traitID, err)
	}
	return int64(len(listedTokens(rows))), nil
}

// TokenListingPrice returns the asking price of the token's most recent listing; nil when unlisted
func (r *ListingResolver) TokenListingPrice(ctx context.Context, slug string, tokenID int64) (*float64, error) {
	listing, err := r.store.GetLatestListing(ctx, slug, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token listing: %w", err)
	}
	if listing == nil {
		return nil, nil
	}
	return listing.Price, nil
}

// FloorHistory returns the trait floor as of the end of each of the last days, most recent first.
// Historical points use stored listing state only.
func (r *ListingResolver) FloorHistory(ctx context.Context, slug string, traitID domain.TraitID, days int) ([]FloorPoint, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", domain.ErrInvalidInput, days)
	}
	now := r.clock.Now()
	points := make([]FloorPoint, days)
	tasks := make([]task, days)
	for i := range days {
		asOf := now.Add(-time.Duration(i) * 24 * time.Hour)
		points[i].Date = asOf
		tasks[i] = func(ctx context.Context) error {
			rows, err := r.store.GetLatestListingsForTrait(ctx, slug, traitID.String(), asOf)
			if err != nil {
				return fmt.Errorf("failed to get listings as of %s: %w", asOf.Format(time.RFC3339), err)
			}
			if listed := listedTokens(rows); len(listed) > 0 {
				points[i].Floor = domain.Float(listed[0].Price)
			}
			return nil
		}
	}

	if err := fanOut(ctx, r.cfg.QueryConcurrency, tasks...); err != nil {
		return nil, err
	}
	return points, nil
}

// refresh refetches one stale listing within the per-call timeout.
// ok is false when the token turned out to be unlisted.
func (r *ListingResolver) refresh(ctx context.Context, collection domain.CollectionConfig, stored domain.ListedToken) (domain.ListedToken, bool) {
	callCtx := ctx
	if r.cfg.ListingRefreshCallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.ListingRefreshCallTimeout)
		defer cancel()
	}

	listing, err := r.refresher.RefreshListing(callCtx, collection, stored.TokenID)
	if err != nil {
		fields := []zap.Field{logger.Collection(collection.Slug), logger.TokenID(stored.TokenID), zap.Error(err)}
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WarnCtx(ctx, "Listing refresh timed out, using stored listing", fields...)
		} else {
			logger.WarnCtx(ctx, "Listing refresh failed, using stored listing", fields...)
		}
		return stored, true
	}
	if listing == nil || listing.Price == nil {
		return domain.ListedToken{}, false
	}

	return domain.ListedToken{
		TokenID:   stored.TokenID,
		Price:     *listing.Price,
		Timestamp: listing.Timestamp,
	}, true
}

// listedTokens keeps the rows carrying a price, cheapest first
func listedTokens(rows []schema.Listing) []domain.ListedToken {
	listed := make([]domain.ListedToken, 0, len(rows))
	for _, row := range rows {
		if row.Price == nil {
			continue
		}
		listed = append(listed, domain.ListedToken{
			TokenID:   row.TokenID,
			Price:     *row.Price,
			Timestamp: row.Timestamp,
		})
	}
	sortListed(listed)
	return listed
}

func sortListed(listed []domain.ListedToken) {
	sort.SliceStable(listed, func(i, j int) bool {
		if listed[i].Price != listed[j].Price {
			return listed[i].Price < listed[j].Price
		}
		return listed[i].TokenID < listed[j].TokenID
	})
}
