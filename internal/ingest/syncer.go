package ingest

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
	"github.com/feral-file/nft-valuation/internal/messaging"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

const defaultEventsBackfill = 14 * 24 * time.Hour

// syncedEventTypes are the event types stored by a sync. Owner updates are
// resolved by event time, so the fetch order does not matter.
var syncedEventTypes = []opensea.EventType{
	opensea.EventTypeCancelled,
	opensea.EventTypeSuccessful,
	opensea.EventTypeCreated,
	opensea.EventTypeTransfer,
}

// SyncResult summarizes one event sync of a collection
type SyncResult struct {
	Slug     string    `json:"slug"`
	Since    time.Time `json:"since"`
	Listings int       `json:"listings"`
	Sales    int       `json:"sales"`
	Owners   int       `json:"owners"`
	Skipped  int       `json:"skipped"`
}

// Syncer appends marketplace events to the listing and sale logs
//
//go:generate mockgen -source=syncer.go -destination=../mocks/syncer.go -package=mocks -mock_names=Syncer=MockSyncer
type Syncer interface {
	// SyncCollection stores the events of a collection since the given time.
	// A nil since resumes from the collection's sync cursor.
	SyncCollection(ctx context.Context, slug string, since *time.Time) (*SyncResult, error)
	// SyncAll syncs every ingested collection and joins their errors
	SyncAll(ctx context.Context) error
}

type syncer struct {
	store     store.Store
	client    opensea.Client
	publisher messaging.Publisher
	clock     adapter.Clock
	cfg       config.IngestConfig
}

// NewSyncer creates a syncer. A nil publisher disables change notifications.
func NewSyncer(st store.Store, client opensea.Client, publisher messaging.Publisher, clock adapter.Clock, cfg config.IngestConfig) Syncer {
	if cfg.EventsBackfill <= 0 {
		cfg.EventsBackfill = defaultEventsBackfill
	}
	return &syncer{
		store:     st,
		client:    client,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

func cursorName(slug string) string {
	return slug + ":events"
}

type ownerUpdate struct {
	owner string
	at    time.Time
}

// SyncCollection stores the events of a collection since the given time
func (s *syncer) SyncCollection(ctx context.Context, slug string, since *time.Time) (*SyncResult, error) {
	collection, err := s.store.GetCollection(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, slug)
	}

	startedAt := s.clock.Now()
	start, err := s.syncStart(ctx, slug, since, startedAt)
	if err != nil {
		return nil, err
	}

	if err := s.refreshFloor(ctx, slug); err != nil {
		// a stale floor is still usable
		logger.WarnCtx(ctx, "Failed to refresh collection floor", logger.Collection(slug), zap.Error(err))
	}

	result := &SyncResult{Slug: slug, Since: start}
	var listings []schema.Listing
	var sales []schema.Sale
	owners := make(map[int64]ownerUpdate)

	for _, eventType := range syncedEventTypes {
		events, err := s.client.GetEvents(ctx, opensea.EventsRequest{
			AssetContractAddress: collection.ContractAddress,
			EventType:            eventType,
			OccurredAfter:        start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s events: %w", eventType, err)
		}

		for i := range events {
			event := &events[i]
			if event.Asset == nil {
				result.Skipped++
				continue
			}
			tokenID, err := event.Asset.ID()
			if err != nil {
				logger.WarnCtx(ctx, "Skipping event with invalid token id", logger.Collection(slug), zap.Error(err))
				result.Skipped++
				continue
			}
			at := event.CreatedDate.Time

			switch eventType {
			case opensea.EventTypeCreated:
				price, err := event.ListingPrice()
				if err != nil {
					logger.WarnCtx(ctx, "Skipping listing without price", logger.Collection(slug), logger.TokenID(tokenID), zap.Error(err))
					result.Skipped++
					continue
				}
				listings = append(listings, schemaListing(slug, domain.Listing{
					TokenID:   tokenID,
					Type:      domain.UpdateTypeCreated,
					Price:     &price,
					Timestamp: at,
				}))
			case opensea.EventTypeCancelled:
				listings = append(listings, schemaListing(slug, domain.Listing{
					TokenID:   tokenID,
					Type:      domain.UpdateTypeCancelled,
					Timestamp: at,
				}))
			case opensea.EventTypeSuccessful:
				listings = append(listings, schemaListing(slug, domain.Listing{
					TokenID:   tokenID,
					Type:      domain.UpdateTypeSuccessful,
					Timestamp: at,
				}))
				if event.WinnerAccount != nil {
					recordOwner(owners, tokenID, event.WinnerAccount.Address, at)
				}
				if !event.PaidInETH() {
					continue
				}
				price, err := event.Price()
				if err != nil {
					logger.WarnCtx(ctx, "Skipping sale without price", logger.Collection(slug), logger.TokenID(tokenID), zap.Error(err))
					result.Skipped++
					continue
				}
				sales = append(sales, schema.Sale{
					CollectionSlug: slug,
					TokenID:        tokenID,
					Price:          price,
					Timestamp:      at,
				})
			case opensea.EventTypeTransfer:
				if event.ToAccount != nil {
					recordOwner(owners, tokenID, event.ToAccount.Address, at)
				}
			}
		}
	}

	if len(listings) > 0 {
		if err := s.store.CreateListings(ctx, listings); err != nil {
			return nil, fmt.Errorf("failed to store listings: %w", err)
		}
	}
	if len(sales) > 0 {
		if err := s.store.CreateSales(ctx, sales); err != nil {
			return nil, fmt.Errorf("failed to store sales: %w", err)
		}
	}

	tokenIDs := make([]int64, 0, len(owners))
	for id := range owners {
		tokenIDs = append(tokenIDs, id)
	}
	sort.Slice(tokenIDs, func(i, j int) bool { return tokenIDs[i] < tokenIDs[j] })
	for _, id := range tokenIDs {
		if err := s.store.UpdateTokenOwner(ctx, slug, id, owners[id].owner); err != nil {
			return nil, fmt.Errorf("failed to update owner of token %d: %w", id, err)
		}
	}

	if err := s.store.SetSyncCursor(ctx, cursorName(slug), startedAt); err != nil {
		return nil, fmt.Errorf("failed to set sync cursor: %w", err)
	}

	result.Listings = len(listings)
	result.Sales = len(sales)
	result.Owners = len(owners)

	logger.InfoCtx(ctx, "Synced collection events",
		logger.Collection(slug),
		zap.Time("since", start),
		zap.Int("listings", result.Listings),
		zap.Int("sales", result.Sales),
		zap.Int("owners", result.Owners),
		zap.Int("skipped", result.Skipped),
	)

	publish(ctx, s.publisher, &domain.CollectionEvent{
		Type:      domain.EventTypeCollectionSynced,
		Slug:      slug,
		Timestamp: startedAt,
	})

	return result, nil
}

// SyncAll syncs every ingested collection; one failing collection does not stop the others
func (s *syncer) SyncAll(ctx context.Context) error {
	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	var errs []error
	for _, c := range collections {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := s.SyncCollection(ctx, c.Slug, nil); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Collection sync failed"), logger.Collection(c.Slug))
			errs = append(errs, fmt.Errorf("%s: %w", c.Slug, err))
		}
	}
	return errors.Join(errs...)
}

// syncStart resolves where a sync resumes: the explicit time, the stored cursor,
// the newest stored listing, or the backfill window
func (s *syncer) syncStart(ctx context.Context, slug string, since *time.Time, now time.Time) (time.Time, error) {
	if since != nil {
		return *since, nil
	}

	cursor, err := s.store.GetSyncCursor(ctx, cursorName(slug))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sync cursor: %w", err)
	}
	if cursor != nil {
		return *cursor, nil
	}

	latest, err := s.store.GetLatestListingTime(ctx, slug)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest listing time: %w", err)
	}
	if latest != nil {
		return *latest, nil
	}

	return now.Add(-s.cfg.EventsBackfill), nil
}

func (s *syncer) refreshFloor(ctx context.Context, slug string) error {
	c, err := s.client.GetCollection(ctx, slug)
	if err != nil {
		return err
	}
	if c.Stats.FloorPrice == nil {
		return nil
	}
	return s.store.UpdateCollectionFloor(ctx, slug, *c.Stats.FloorPrice)
}

func recordOwner(owners map[int64]ownerUpdate, tokenID int64, address string, at time.Time) {
	if address == "" {
		return
	}
	if current, ok := owners[tokenID]; ok && current.at.After(at) {
		return
	}
	owners[tokenID] = ownerUpdate{owner: domain.NormalizeAddress(address), at: at}
}

// publish notifies readers; a broker failure never fails the write that preceded it
func publish(ctx context.Context, publisher messaging.Publisher, event *domain.CollectionEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish collection event",
			logger.Collection(event.Slug),
			zap.String("event", string(event.Type)),
			zap.Error(err),
		)
	}
}
