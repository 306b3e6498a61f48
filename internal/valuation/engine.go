package valuation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// Valuer computes profiles on demand
//
//go:generate mockgen -source=engine.go -destination=../mocks/valuer.go -package=mocks -mock_names=Valuer=MockValuer,CustomPriceSource=MockCustomPriceSource
type Valuer interface {
	// PriceProfile synthesizes the price envelope of a token
	PriceProfile(ctx context.Context, slug string, tokenID int64) (*PriceProfile, error)
	// LiquidityProfile summarizes listing and sale activity around a token's traits
	LiquidityProfile(ctx context.Context, slug string, tokenID int64) (*LiquidityProfile, error)
	// TokenProfile combines token details with every profile
	TokenProfile(ctx context.Context, slug string, tokenID int64) (*TokenProfile, error)
	// CollectionProfile summarizes the market state of a collection
	CollectionProfile(ctx context.Context, slug string) (*CollectionProfile, error)
	// TraitFloorHistory returns the floor of a trait over the last days
	TraitFloorHistory(ctx context.Context, slug string, traitID domain.TraitID, days int) ([]FloorPoint, error)
	// Collections lists every ingested collection
	Collections(ctx context.Context) ([]CollectionSummary, error)
}

// CustomPriceSource looks up curated prices
type CustomPriceSource interface {
	CustomPrice(slug string, tokenID int64) (float64, bool)
}

// Engine is the request-time valuation engine
type Engine struct {
	store        store.Store
	resolver     *ListingResolver
	sales        *SaleAnalyzer
	customPrices CustomPriceSource
	clock        adapter.Clock
	cfg          config.ValuationConfig
}

// NewEngine creates a valuation engine. customPrices and refresher may be nil.
func NewEngine(st store.Store, refresher ListingRefresher, customPrices CustomPriceSource, clock adapter.Clock, cfg config.ValuationConfig) *Engine {
	if cfg.QueryConcurrency <= 0 {
		cfg.QueryConcurrency = 6
	}
	if cfg.MVTSalesCount <= 0 {
		cfg.MVTSalesCount = 3
	}
	if cfg.SaleWindowDays <= 0 {
		cfg.SaleWindowDays = 60
	}
	if cfg.FrequencyWindowDays <= 0 {
		cfg.FrequencyWindowDays = 30
	}

	return &Engine{
		store:        st,
		resolver:     NewListingResolver(st, refresher, clock, cfg),
		sales:        NewSaleAnalyzer(st, clock),
		customPrices: customPrices,
		clock:        clock,
		cfg:          cfg,
	}
}

// tokenAnalysis holds what every token profile derives from storage first
type tokenAnalysis struct {
	collection domain.CollectionConfig
	token      *schema.Token
	ranked     []RankedTrait
	// floors is in rarity order, like ranked
	floors []TraitFloor
	mvt    *TraitFloor
}

func (a *tokenAnalysis) rarest() *TraitFloor {
	if len(a.floors) == 0 {
		return nil
	}
	return &a.floors[0]
}

// CollectionConfig converts a stored collection into the configuration passed to computations
func CollectionConfig(c *schema.Collection) domain.CollectionConfig {
	return domain.CollectionConfig{
		Slug:                     c.Slug,
		ContractAddress:          c.ContractAddress,
		TotalSupply:              c.TotalSupply,
		FloorPrice:               c.FloorPrice,
		AvgTraitRarity:           c.AvgTraitRarity,
		RarityMultiplier:         c.RarityMultiplier,
		RarityCutoff:             c.RarityCutoff,
		IgnoredTraitTypesRarity:  []string(c.IgnoredTraitTypesRarity),
		IgnoredTraitTypesOverlap: []string(c.IgnoredTraitTypesOverlap),
	}
}

func (e *Engine) loadCollection(ctx context.Context, slug string) (domain.CollectionConfig, error) {
	c, err := e.store.GetCollection(ctx, slug)
	if err != nil {
		return domain.CollectionConfig{}, fmt.Errorf("failed to get collection: %w", err)
	}
	if c == nil {
		return domain.CollectionConfig{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, slug)
	}
	return CollectionConfig(c), nil
}

func (e *Engine) customPrice(collection domain.CollectionConfig, tokenID int64) (*PriceProfile, bool) {
	if e.customPrices == nil {
		return nil, false
	}
	price, ok := e.customPrices.CustomPrice(collection.Slug, tokenID)
	if !ok {
		return nil, false
	}
	return CustomPriceProfile(collection.FloorPrice, price), true
}

// analyze loads the token, ranks its traits and resolves every trait floor in one batch
func (e *Engine) analyze(ctx context.Context, collection domain.CollectionConfig, tokenID int64) (*tokenAnalysis, error) {
	token, err := e.store.GetToken(ctx, collection.Slug, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if token == nil {
		return nil, fmt.Errorf("%w: %s/%d", domain.ErrTokenNotFound, collection.Slug, tokenID)
	}

	rows, err := e.store.GetTraits(ctx, collection.Slug, []string(token.Traits))
	if err != nil {
		return nil, fmt.Errorf("failed to get token traits: %w", err)
	}
	ranked := RankTraits(traitsFromSchema(rows), collection.TotalSupply, collection.IgnoredTraitTypesRarity)

	traitIDs := make([]domain.TraitID, len(ranked))
	for i, trait := range ranked {
		traitIDs[i] = trait.ID
	}
	resolved, err := e.resolver.TraitFloors(ctx, collection, traitIDs)
	if err != nil {
		return nil, err
	}

	floors := make([]TraitFloor, len(ranked))
	for i, trait := range ranked {
		floors[i].Trait = trait
		if floor, ok := resolved[trait.ID]; ok {
			floors[i].Floor = domain.Float(floor.Price)
		}
	}

	return &tokenAnalysis{
		collection: collection,
		token:      token,
		ranked:     ranked,
		floors:     floors,
		mvt:        MostValuedTrait(floors, collection.RarityCutoff),
	}, nil
}

// PriceProfile synthesizes the price envelope of a token. A custom price short-circuits the computation.
func (e *Engine) PriceProfile(ctx context.Context, slug string, tokenID int64) (*PriceProfile, error) {
	collection, err := e.loadCollection(ctx, slug)
	if err != nil {
		return nil, err
	}
	if profile, ok := e.customPrice(collection, tokenID); ok {
		return profile, nil
	}

	a, err := e.analyze(ctx, collection, tokenID)
	if err != nil {
		return nil, err
	}
	return e.priceProfile(ctx, a)
}

func (e *Engine) priceProfile(ctx context.Context, a *tokenAnalysis) (*PriceProfile, error) {
	if profile, ok := e.customPrice(a.collection, a.token.TokenID); ok {
		return profile, nil
	}

	slug := a.collection.Slug
	profile := &PriceProfile{
		CollectionFloor:     domain.Positive(domain.Float(a.collection.FloorPrice)),
		RarityWeightedFloor: RarityWeightedFloor(a.floors, a.collection.RarityCutoff),
	}
	if rarest := a.rarest(); rarest != nil {
		profile.RarestTrait = &rarest.Trait.ID
		profile.MostRareTraitFloor = rarest.Floor
	}
	if a.mvt != nil {
		profile.MostValuedTrait = &a.mvt.Trait.ID
		profile.MostValuedTraitFloor = a.mvt.Floor
	}

	var tokenSales, mvtSales []domain.Sale
	tasks := []task{
		func(ctx context.Context) (err error) {
			tokenSales, err = e.sales.TokenSales(ctx, slug, a.token.TokenID)
			return err
		},
	}
	if a.mvt != nil {
		tasks = append(tasks, func(ctx context.Context) (err error) {
			mvtSales, err = e.sales.TraitSales(ctx, slug, a.mvt.Trait.ID, time.Time{})
			return err
		})
	}
	if err := fanOut(ctx, e.cfg.QueryConcurrency, tasks...); err != nil {
		return nil, err
	}

	profile.AvgLastThreeMVTSales = AvgLastN(mvtSales, e.cfg.MVTSalesCount)

	if last := LastSale(tokenSales); last != nil {
		profile.LastSale = domain.Float(last.Price)

		relative := []task{
			func(ctx context.Context) (err error) {
				profile.LastSaleRelativeCollectionAvg, err = e.sales.LastSaleRelative(ctx, slug, nil, *last)
				return err
			},
		}
		if a.mvt != nil {
			relative = append(relative, func(ctx context.Context) (err error) {
				profile.LastSaleRelativeMVTAvg, err = e.sales.LastSaleRelative(ctx, slug, &a.mvt.Trait.ID, *last)
				return err
			})
		}
		if err := fanOut(ctx, e.cfg.QueryConcurrency, relative...); err != nil {
			return nil, err
		}
	}

	profile.MaxPrice, profile.MinPrice, profile.AvgPrice = Envelope(a.collection.FloorPrice, profile.candidates()...)

	logger.DebugCtx(ctx, "Price profile computed",
		logger.Collection(slug),
		logger.TokenID(a.token.TokenID),
		zap.Float64("max_price", profile.MaxPrice),
		zap.Float64("min_price", profile.MinPrice),
	)
	return profile, nil
}

// LiquidityProfile summarizes listing and sale activity around a token's traits
func (e *Engine) LiquidityProfile(ctx context.Context, slug string, tokenID int64) (*LiquidityProfile, error) {
	collection, err := e.loadCollection(ctx, slug)
	if err != nil {
		return nil, err
	}
	a, err := e.analyze(ctx, collection, tokenID)
	if err != nil {
		return nil, err
	}
	price, err := e.priceProfile(ctx, a)
	if err != nil {
		return nil, err
	}
	return e.liquidityProfile(ctx, a, price.MaxPrice)
}

// rarityProfile describes the token's traits and overlap statistics
func (e *Engine) rarityProfile(a *tokenAnalysis) RarityProfile {
	profile := RarityProfile{
		Traits:           a.ranked,
		UniqueTraits:     UniqueTraits(a.ranked),
		OverlapsComputed: a.token.OverlapsComputed,
		Overlaps:         overlapSummaries(a.token),
	}
	if rarest := a.rarest(); rarest != nil {
		profile.RarestTrait = &rarest.Trait.ID
	}
	if a.mvt != nil {
		profile.MostValuedTrait = &a.mvt.Trait.ID
	}
	return profile
}

func overlapSummaries(token *schema.Token) []OverlapSummary {
	ids := [len(domain.OverlapSizes)][]int64{token.OverlapIDs3, token.OverlapIDs4, token.OverlapIDs5}
	counts := [len(domain.OverlapSizes)]int{token.OverlapCount3, token.OverlapCount4, token.OverlapCount5}

	summaries := make([]OverlapSummary, len(domain.OverlapSizes))
	for i, size := range domain.OverlapSizes {
		summaries[i] = OverlapSummary{
			Size:  size,
			Count: counts[i],
			IDs:   append([]int64{}, ids[i]...),
		}
	}
	return summaries
}

// TokenProfile combines token details with every profile
func (e *Engine) TokenProfile(ctx context.Context, slug string, tokenID int64) (*TokenProfile, error) {
	collection, err := e.loadCollection(ctx, slug)
	if err != nil {
		return nil, err
	}
	a, err := e.analyze(ctx, collection, tokenID)
	if err != nil {
		return nil, err
	}

	price, err := e.priceProfile(ctx, a)
	if err != nil {
		return nil, err
	}
	liquidity, err := e.liquidityProfile(ctx, a, price.MaxPrice)
	if err != nil {
		return nil, err
	}
	collectionProfile, err := e.collectionProfile(ctx, collection)
	if err != nil {
		return nil, err
	}

	profile := &TokenProfile{
		Slug:       slug,
		TokenID:    tokenID,
		Name:       a.token.Name,
		Permalink:  a.token.Permalink,
		ImageURL:   a.token.ImageURL,
		Owner:      a.token.Owner,
		Collection: *collectionProfile,
		Price:      *price,
		Liquidity:  *liquidity,
		Rarity:     e.rarityProfile(a),
	}

	since := e.clock.Now().Add(-time.Duration(e.cfg.FrequencyWindowDays) * day)
	err = fanOut(ctx, e.cfg.QueryConcurrency,
		func(ctx context.Context) (err error) {
			profile.ListingPrice, err = e.resolver.TokenListingPrice(ctx, slug, tokenID)
			return err
		},
		func(ctx context.Context) error {
			listings, err := e.store.GetListingsForToken(ctx, slug, tokenID, since)
			if err != nil {
				return fmt.Errorf("failed to get token listings: %w", err)
			}
			profile.NrListings30d = len(listings)
			return nil
		},
		func(ctx context.Context) error {
			if a.token.Owner == "" {
				return nil
			}
			count, err := e.store.CountTokensByOwner(ctx, slug, a.token.Owner)
			if err != nil {
				return fmt.Errorf("failed to count owner tokens: %w", err)
			}
			profile.OwnerTokensInCollection = count
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// CollectionProfile summarizes the market state of a collection
func (e *Engine) CollectionProfile(ctx context.Context, slug string) (*CollectionProfile, error) {
	collection, err := e.loadCollection(ctx, slug)
	if err != nil {
		return nil, err
	}
	return e.collectionProfile(ctx, collection)
}

func (e *Engine) collectionProfile(ctx context.Context, collection domain.CollectionConfig) (*CollectionProfile, error) {
	now := e.clock.Now()
	since14d := now.Add(-14 * day)
	profile := &CollectionProfile{
		Slug:            collection.Slug,
		ContractAddress: collection.ContractAddress,
		FloorPrice:      collection.FloorPrice,
		TotalSupply:     collection.TotalSupply,
		AvgTraitRarity:  collection.AvgTraitRarity,
		RarityCutoff:    collection.RarityCutoff,
	}

	var monthSales []domain.Sale
	err := fanOut(ctx, e.cfg.QueryConcurrency,
		func(ctx context.Context) (err error) {
			profile.NrListedNow, err = e.store.CountListedTokens(ctx, collection.Slug)
			return err
		},
		func(ctx context.Context) (err error) {
			profile.NrNewListings14d, err = e.store.CountListingEvents(ctx, collection.Slug, schema.ListingUpdateTypeCreated, since14d)
			return err
		},
		func(ctx context.Context) (err error) {
			profile.NrCancelledListings14d, err = e.store.CountListingEvents(ctx, collection.Slug, schema.ListingUpdateTypeCancelled, since14d)
			return err
		},
		func(ctx context.Context) error {
			rows, err := e.store.GetCollectionSales(ctx, collection.Slug, now.Add(-30*day))
			if err != nil {
				return err
			}
			monthSales = salesFromSchema(rows)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection profile: %w", err)
	}

	for _, s := range monthSales {
		if !s.Timestamp.Before(since14d) {
			profile.NrSales14d++
		}
	}
	profile.DailyAvgPrice = AvgPriceSince(monthSales, now.Add(-day))
	profile.WeeklyAvgPrice = AvgPriceSince(monthSales, now.Add(-7*day))
	profile.MonthlyAvgPrice = AvgPriceSince(monthSales, now.Add(-30*day))

	return profile, nil
}

// TraitFloorHistory returns the floor of a trait at the end of each of the last days
func (e *Engine) TraitFloorHistory(ctx context.Context, slug string, traitID domain.TraitID, days int) ([]FloorPoint, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", domain.ErrInvalidInput, days)
	}
	if _, err := e.loadCollection(ctx, slug); err != nil {
		return nil, err
	}
	traits, err := e.store.GetTraits(ctx, slug, []string{traitID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get trait: %w", err)
	}
	if len(traits) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrTraitNotFound, traitID)
	}
	return e.resolver.FloorHistory(ctx, slug, traitID, days)
}

// Collections lists every ingested collection
func (e *Engine) Collections(ctx context.Context) ([]CollectionSummary, error) {
	rows, err := e.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	summaries := make([]CollectionSummary, len(rows))
	for i, c := range rows {
		summaries[i] = CollectionSummary{
			Slug:            c.Slug,
			ContractAddress: c.ContractAddress,
			TotalSupply:     c.TotalSupply,
			FloorPrice:      c.FloorPrice,
		}
	}
	return summaries, nil
}
