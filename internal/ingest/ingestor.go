package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/messaging"
	"github.com/feral-file/nft-valuation/internal/overlap"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
	"github.com/feral-file/nft-valuation/internal/valuation"
)

const defaultRarityMultiplier = 1.0

var defaultIgnoredTraitTypes = []string{"serial"}

// IngestRequest describes a collection to ingest. Nil or empty fields fall back to the configured defaults.
type IngestRequest struct {
	Slug                     string   `json:"slug" binding:"required"`
	RarityMultiplier         *float64 `json:"rarity_multiplier,omitempty"`
	IgnoredTraitTypesRarity  []string `json:"ignored_trait_types_rarity,omitempty"`
	IgnoredTraitTypesOverlap []string `json:"ignored_trait_types_overlap,omitempty"`
}

// IngestResult summarizes a completed ingestion run
type IngestResult struct {
	RunID            string      `json:"run_id"`
	Slug             string      `json:"slug"`
	ContractAddress  string      `json:"contract_address"`
	TotalSupply      int64       `json:"total_supply"`
	Traits           int         `json:"traits"`
	Tokens           int         `json:"tokens"`
	Listings         int         `json:"listings"`
	AvgTraitRarity   float64     `json:"avg_trait_rarity"`
	RarityCutoff     float64     `json:"rarity_cutoff"`
	OverlapsComplete bool        `json:"overlaps_complete"`
	Backfill         *SyncResult `json:"backfill,omitempty"`
}

// Ingestor builds and replaces collection snapshots
//
//go:generate mockgen -source=ingestor.go -destination=../mocks/ingestor.go -package=mocks -mock_names=Ingestor=MockIngestor,Pipeline=MockPipeline
type Ingestor interface {
	// IngestCollection fetches a collection, computes its derived data and swaps the stored snapshot
	IngestCollection(ctx context.Context, req IngestRequest) (*IngestResult, error)
	// PurgeCollection deletes a collection and everything recorded about it
	PurgeCollection(ctx context.Context, slug string) error
}

// Pipeline exposes the stages of IngestCollection so they can run as separate workflow activities
type Pipeline interface {
	Ingestor
	// SnapshotCollection fetches a collection, swaps the stored snapshot and seeds the initial listings
	SnapshotCollection(ctx context.Context, req IngestRequest) (*IngestResult, error)
	// BackfillEvents syncs the recent marketplace events of a freshly ingested collection.
	// It returns nil without a syncer.
	BackfillEvents(ctx context.Context, slug string) (*SyncResult, error)
	// AnnounceIngested publishes the collection ingested event
	AnnounceIngested(ctx context.Context, slug string, runID string) error
}

type ingestor struct {
	store        store.Store
	client       opensea.Client
	preprocessor *overlap.Preprocessor
	syncer       Syncer
	publisher    messaging.Publisher
	clock        adapter.Clock
	json         adapter.JSON
	cfg          config.IngestConfig
}

// NewIngestor creates an ingestor. A nil syncer skips the events backfill and
// a nil publisher disables change notifications.
func NewIngestor(
	st store.Store,
	client opensea.Client,
	preprocessor *overlap.Preprocessor,
	syncer Syncer,
	publisher messaging.Publisher,
	clock adapter.Clock,
	json adapter.JSON,
	cfg config.IngestConfig,
) Pipeline {
	if cfg.DefaultRarityMultiplier <= 0 {
		cfg.DefaultRarityMultiplier = defaultRarityMultiplier
	}
	if cfg.DefaultIgnoredTraitTypes == nil {
		cfg.DefaultIgnoredTraitTypes = defaultIgnoredTraitTypes
	}
	if cfg.EventsBackfill <= 0 {
		cfg.EventsBackfill = defaultEventsBackfill
	}
	if preprocessor == nil {
		preprocessor = overlap.NewPreprocessor(cfg.OverlapChunks)
	}

	return &ingestor{
		store:        st,
		client:       client,
		preprocessor: preprocessor,
		syncer:       syncer,
		publisher:    publisher,
		clock:        clock,
		json:         json,
		cfg:          cfg,
	}
}

// IngestCollection fetches a collection, computes its derived data and swaps the stored snapshot
func (i *ingestor) IngestCollection(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	result, err := i.SnapshotCollection(ctx, req)
	if err != nil {
		return nil, err
	}

	backfill, err := i.BackfillEvents(ctx, result.Slug)
	if err != nil {
		// the next scheduled sync resumes from the newest stored listing
		logger.WarnCtx(ctx, "Events backfill failed", logger.Collection(result.Slug), zap.Error(err))
	}
	result.Backfill = backfill

	if err := i.AnnounceIngested(ctx, result.Slug, result.RunID); err != nil {
		return nil, err
	}
	return result, nil
}

// SnapshotCollection fetches a collection, swaps the stored snapshot and seeds the initial listings
func (i *ingestor) SnapshotCollection(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: collection slug is required", domain.ErrInvalidInput)
	}

	runID := uuid.New().String()
	multiplier := i.cfg.DefaultRarityMultiplier
	if req.RarityMultiplier != nil && *req.RarityMultiplier > 0 {
		multiplier = *req.RarityMultiplier
	}
	ignoredRarity := lowerAll(withDefault(req.IgnoredTraitTypesRarity, i.cfg.DefaultIgnoredTraitTypes))
	ignoredOverlap := lowerAll(withDefault(req.IgnoredTraitTypesOverlap, i.cfg.DefaultIgnoredTraitTypes))

	logger.InfoCtx(ctx, "Ingesting collection", logger.Collection(slug), zap.String("runID", runID))

	collection, err := i.client.GetCollection(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}

	assets, err := i.client.GetAllAssets(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	tokens := make([]domain.Token, 0, len(assets))
	seen := make(map[int64]struct{}, len(assets))
	for idx := range assets {
		token, err := tokenFromAsset(&assets[idx])
		if err != nil {
			logger.WarnCtx(ctx, "Skipping asset", logger.Collection(slug), zap.Error(err))
			continue
		}
		if _, dup := seen[token.ID]; dup {
			continue
		}
		seen[token.ID] = struct{}{}
		tokens = append(tokens, token)
	}

	traits := traitCounts(collection.Traits, tokens)

	totalSupply := int64(collection.Stats.TotalSupply)
	if totalSupply <= 0 {
		totalSupply = int64(len(tokens))
	}
	avgRarity := valuation.AvgTraitRarity(rarityTraits(traits, ignoredRarity))
	cutoff := domain.RarityCutoff(avgRarity, multiplier, totalSupply)

	overlapsComplete := true
	tokens, err = i.preprocessor.Run(ctx, tokens, ignoredOverlap)
	if err != nil {
		// the snapshot is still stored; affected tokens carry OverlapsComputed=false
		overlapsComplete = false
		logger.WarnCtx(ctx, "Overlap preprocessing incomplete", logger.Collection(slug), zap.Error(err))
	}

	histogram, err := i.json.Marshal(collection.Traits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trait histogram: %w", err)
	}

	floor := 0.0
	if collection.Stats.FloorPrice != nil {
		floor = *collection.Stats.FloorPrice
	}

	snapshot := store.CollectionSnapshot{
		Collection: schema.Collection{
			Slug:                     slug,
			ContractAddress:          domain.NormalizeAddress(collection.ContractAddress()),
			TotalSupply:              totalSupply,
			FloorPrice:               floor,
			AvgTraitRarity:           avgRarity,
			RarityMultiplier:         multiplier,
			RarityCutoff:             cutoff,
			IgnoredTraitTypesRarity:  pq.StringArray(ignoredRarity),
			IgnoredTraitTypesOverlap: pq.StringArray(ignoredOverlap),
			TraitHistogram:           datatypes.JSON(histogram),
		},
		Traits: schemaTraits(slug, traits),
		Tokens: make([]schema.Token, len(tokens)),
	}
	for idx, token := range tokens {
		snapshot.Tokens[idx] = schemaToken(slug, token)
	}

	if err := i.store.ReplaceCollectionSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store collection snapshot: %w", err)
	}

	listings := initialListings(slug, assets, i.clock.Now())
	if len(listings) > 0 {
		if err := i.store.CreateListings(ctx, listings); err != nil {
			return nil, fmt.Errorf("failed to store initial listings: %w", err)
		}
	}

	result := &IngestResult{
		RunID:            runID,
		Slug:             slug,
		ContractAddress:  snapshot.Collection.ContractAddress,
		TotalSupply:      totalSupply,
		Traits:           len(traits),
		Tokens:           len(tokens),
		Listings:         len(listings),
		AvgTraitRarity:   avgRarity,
		RarityCutoff:     cutoff,
		OverlapsComplete: overlapsComplete,
	}

	logger.InfoCtx(ctx, "Stored collection snapshot",
		logger.Collection(slug),
		zap.String("runID", runID),
		zap.Int64("totalSupply", totalSupply),
		zap.Int("traits", result.Traits),
		zap.Int("tokens", result.Tokens),
		zap.Int("listings", result.Listings),
		zap.Float64("rarityCutoff", cutoff),
		zap.Bool("overlapsComplete", overlapsComplete),
	)

	return result, nil
}

// BackfillEvents syncs the events of the configured backfill window
func (i *ingestor) BackfillEvents(ctx context.Context, slug string) (*SyncResult, error) {
	if i.syncer == nil {
		return nil, nil
	}
	since := i.clock.Now().Add(-i.cfg.EventsBackfill)
	return i.syncer.SyncCollection(ctx, slug, &since)
}

// AnnounceIngested publishes the collection ingested event
func (i *ingestor) AnnounceIngested(ctx context.Context, slug string, runID string) error {
	publish(ctx, i.publisher, &domain.CollectionEvent{
		Type:      domain.EventTypeCollectionIngested,
		Slug:      slug,
		RunID:     runID,
		Timestamp: i.clock.Now(),
	})
	return nil
}

// PurgeCollection deletes a collection and everything recorded about it
func (i *ingestor) PurgeCollection(ctx context.Context, slug string) error {
	collection, err := i.store.GetCollection(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, slug)
	}

	if err := i.store.PurgeCollection(ctx, slug); err != nil {
		return fmt.Errorf("failed to purge collection: %w", err)
	}

	logger.InfoCtx(ctx, "Purged collection", logger.Collection(slug))

	publish(ctx, i.publisher, &domain.CollectionEvent{
		Type:      domain.EventTypeCollectionPurged,
		Slug:      slug,
		Timestamp: i.clock.Now(),
	})
	return nil
}

// initialListings records the cheapest sell order of every listed asset
func initialListings(slug string, assets []opensea.Asset, now time.Time) []schema.Listing {
	var listings []schema.Listing
	for idx := range assets {
		asset := &assets[idx]
		order, price := asset.CheapestSellOrder()
		if order == nil {
			continue
		}
		tokenID, err := asset.ID()
		if err != nil {
			continue
		}

		at := order.CreatedDate.Time
		if at.IsZero() || at.After(now) {
			at = now
		}
		listings = append(listings, schemaListing(slug, domain.Listing{
			TokenID:   tokenID,
			Type:      domain.UpdateTypeSellOrder,
			Price:     &price,
			Timestamp: at,
		}))
	}
	return listings
}

// rarityTraits drops the traits whose type is excluded from rarity
func rarityTraits(traits []domain.Trait, ignoredTypes []string) []domain.Trait {
	ids := make([]domain.TraitID, len(traits))
	for idx, t := range traits {
		ids[idx] = t.ID
	}
	kept := make(map[domain.TraitID]struct{}, len(traits))
	for _, id := range domain.FilterTraits(ids, ignoredTypes) {
		kept[id] = struct{}{}
	}

	filtered := make([]domain.Trait, 0, len(kept))
	for _, t := range traits {
		if _, ok := kept[t.ID]; ok {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func withDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
