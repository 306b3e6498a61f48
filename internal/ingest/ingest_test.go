package ingest_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/mocks"
	"github.com/feral-file/nft-valuation/internal/overlap"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

const (
	testSlug     = "cool-cats"
	testContract = "0x1a92f7381b9f03921564a437210bb9396471050c"
)

var testNow = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type ingestMocks struct {
	store     *mocks.MockStore
	client    *mocks.MockOpenSeaClient
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	syncer    *mocks.MockSyncer
}

func newIngestMocks(t *testing.T) *ingestMocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &ingestMocks{
		store:     mocks.NewMockStore(ctrl),
		client:    mocks.NewMockOpenSeaClient(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		syncer:    mocks.NewMockSyncer(ctrl),
	}
	m.clock.EXPECT().Now().Return(testNow).AnyTimes()
	return m
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func asset(id string, owner string, traits map[string]interface{}, orders ...opensea.SellOrder) opensea.Asset {
	a := opensea.Asset{
		TokenID:    id,
		Name:       "Cat #" + id,
		Owner:      opensea.Account{Address: owner},
		SellOrders: orders,
	}
	for typ, value := range traits {
		a.Traits = append(a.Traits, opensea.Trait{TraitType: typ, Value: value})
	}
	return a
}

func TestIngestor_IngestCollection(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, overlap.NewPreprocessor(2), m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{
		DefaultRarityMultiplier:  2,
		DefaultIgnoredTraitTypes: []string{"serial"},
		EventsBackfill:           24 * time.Hour,
	})

	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{
		Slug:                  testSlug,
		PrimaryAssetContracts: []opensea.AssetContract{{Address: testContract}},
		Traits: map[string]map[string]int64{
			"Hat":    {"Cap": 2, "Crown": 1},
			"Serial": {"1": 1, "2": 1, "3": 1},
		},
		Stats: opensea.CollectionStats{TotalSupply: 3, FloorPrice: floatPtr(0.5)},
	}, nil)

	m.client.EXPECT().GetAllAssets(ctx, testSlug).Return([]opensea.Asset{
		asset("1", "0xabc", map[string]interface{}{"Hat": "Cap", "Serial": float64(1)},
			opensea.SellOrder{CurrentPrice: "2000000000000000000", CreatedDate: opensea.NaiveTime{Time: testNow.Add(-time.Hour)}},
			opensea.SellOrder{CurrentPrice: "1500000000000000000", CreatedDate: opensea.NaiveTime{Time: testNow.Add(-2 * time.Hour)}},
		),
		asset("2", "0xdef", map[string]interface{}{"Hat": "Cap", "Serial": float64(2)}),
		asset("3", "0xdef", map[string]interface{}{"Hat": "Crown", "Serial": float64(3)}),
		asset("bogus", "0xdef", nil),
	}, nil)

	var snapshot store.CollectionSnapshot
	m.store.EXPECT().ReplaceCollectionSnapshot(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s store.CollectionSnapshot) error {
			snapshot = s
			return nil
		})

	m.store.EXPECT().CreateListings(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, listings []schema.Listing) error {
			require.Len(t, listings, 1)
			assert.Equal(t, int64(1), listings[0].TokenID)
			assert.Equal(t, schema.ListingUpdateTypeSellOrder, listings[0].UpdateType)
			require.NotNil(t, listings[0].Price)
			assert.InDelta(t, 1.5, *listings[0].Price, 1e-9)
			assert.Equal(t, testNow.Add(-2*time.Hour), listings[0].Timestamp)
			return nil
		})

	since := testNow.Add(-24 * time.Hour)
	m.syncer.EXPECT().SyncCollection(ctx, testSlug, &since).Return(&ingest.SyncResult{Slug: testSlug, Sales: 2}, nil)

	m.publisher.EXPECT().PublishEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.CollectionEvent) error {
			assert.Equal(t, domain.EventTypeCollectionIngested, event.Type)
			assert.Equal(t, testSlug, event.Slug)
			assert.NotEmpty(t, event.RunID)
			return nil
		})

	result, err := ing.IngestCollection(ctx, ingest.IngestRequest{Slug: testSlug})
	require.NoError(t, err)

	assert.Equal(t, testSlug, result.Slug)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, int64(3), result.TotalSupply)
	assert.Equal(t, 3, result.Tokens)
	assert.Equal(t, 5, result.Traits)
	assert.Equal(t, 1, result.Listings)
	assert.True(t, result.OverlapsComplete)
	require.NotNil(t, result.Backfill)
	assert.Equal(t, 2, result.Backfill.Sales)

	// serial traits are excluded from the average: (2 + 1) / 2
	assert.InDelta(t, 1.5, result.AvgTraitRarity, 1e-9)
	assert.InDelta(t, 1.5*2/3, result.RarityCutoff, 1e-9)

	c := snapshot.Collection
	assert.Equal(t, testSlug, c.Slug)
	assert.Equal(t, domain.NormalizeAddress(testContract), c.ContractAddress)
	assert.Equal(t, 0.5, c.FloorPrice)
	assert.Equal(t, 2.0, c.RarityMultiplier)
	assert.Equal(t, []string{"serial"}, []string(c.IgnoredTraitTypesRarity))
	assert.JSONEq(t, `{"Hat":{"Cap":2,"Crown":1},"Serial":{"1":1,"2":1,"3":1}}`, string(c.TraitHistogram))

	require.Len(t, snapshot.Traits, 5)
	assert.Equal(t, "hat:cap", snapshot.Traits[0].TraitID)
	assert.Equal(t, int64(2), snapshot.Traits[0].TraitCount)

	require.Len(t, snapshot.Tokens, 3)
	assert.Equal(t, []string{"hat:cap", "serial:1"}, []string(snapshot.Tokens[0].Traits))
	for _, token := range snapshot.Tokens {
		assert.True(t, token.OverlapsComputed)
		assert.Equal(t, testSlug, token.CollectionSlug)
	}
}

func TestIngestor_IngestCollection_FetchError(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.client.EXPECT().GetCollection(ctx, "missing").Return(nil, opensea.ErrCollectionNotFound)

	result, err := ing.IngestCollection(ctx, ingest.IngestRequest{Slug: "missing"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, opensea.ErrCollectionNotFound)
}

func TestIngestor_IngestCollection_EmptySlug(t *testing.T) {
	m := newIngestMocks(t)
	ing := ingest.NewIngestor(m.store, m.client, nil, nil, nil, m.clock, adapter.NewJSON(), config.IngestConfig{})

	_, err := ing.IngestCollection(context.Background(), ingest.IngestRequest{Slug: "  "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestor_SnapshotCollection_SkipsBackfillAndAnnouncement(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{Slug: testSlug}, nil)
	m.client.EXPECT().GetAllAssets(ctx, testSlug).Return([]opensea.Asset{
		asset("1", "0xabc", map[string]interface{}{"Hat": "Cap"}),
	}, nil)
	m.store.EXPECT().ReplaceCollectionSnapshot(ctx, gomock.Any()).Return(nil)
	m.syncer.EXPECT().SyncCollection(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Times(0)

	result, err := ing.SnapshotCollection(ctx, ingest.IngestRequest{Slug: testSlug})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Tokens)
	assert.Nil(t, result.Backfill)
}

func TestIngestor_BackfillEvents(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, nil, m.clock, adapter.NewJSON(), config.IngestConfig{
		EventsBackfill: 48 * time.Hour,
	})

	since := testNow.Add(-48 * time.Hour)
	m.syncer.EXPECT().SyncCollection(ctx, testSlug, &since).Return(&ingest.SyncResult{Slug: testSlug, Listings: 4}, nil)

	result, err := ing.BackfillEvents(ctx, testSlug)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Listings)
}

func TestIngestor_BackfillEvents_NoSyncer(t *testing.T) {
	m := newIngestMocks(t)
	ing := ingest.NewIngestor(m.store, m.client, nil, nil, nil, m.clock, adapter.NewJSON(), config.IngestConfig{})

	result, err := ing.BackfillEvents(context.Background(), testSlug)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestIngestor_AnnounceIngested(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.publisher.EXPECT().PublishEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.CollectionEvent) error {
			assert.Equal(t, domain.EventTypeCollectionIngested, event.Type)
			assert.Equal(t, "run-9", event.RunID)
			assert.Equal(t, testNow, event.Timestamp)
			return errors.New("broker down")
		})

	// publish failures are logged, not returned
	assert.NoError(t, ing.AnnounceIngested(ctx, testSlug, "run-9"))
}

func TestIngestor_IngestCollection_BackfillFailureIsNotFatal(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, nil, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{Slug: testSlug}, nil)
	m.client.EXPECT().GetAllAssets(ctx, testSlug).Return([]opensea.Asset{
		asset("1", "0xabc", map[string]interface{}{"Hat": "Cap"}),
	}, nil)
	m.store.EXPECT().ReplaceCollectionSnapshot(ctx, gomock.Any()).Return(nil)
	m.syncer.EXPECT().SyncCollection(ctx, testSlug, gomock.Any()).Return(nil, errors.New("upstream down"))

	result, err := ing.IngestCollection(ctx, ingest.IngestRequest{Slug: testSlug, RarityMultiplier: floatPtr(3)})
	require.NoError(t, err)

	// total supply falls back to the number of tokens
	assert.Equal(t, int64(1), result.TotalSupply)
	assert.Nil(t, result.Backfill)
	assert.Equal(t, 0, result.Listings)
	assert.InDelta(t, 3.0, result.RarityCutoff, 1e-9)
}

func TestIngestor_IngestCollection_SnapshotError(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{Slug: testSlug}, nil)
	m.client.EXPECT().GetAllAssets(ctx, testSlug).Return(nil, nil)
	m.store.EXPECT().ReplaceCollectionSnapshot(ctx, gomock.Any()).Return(errors.New("db down"))

	_, err := ing.IngestCollection(ctx, ingest.IngestRequest{Slug: testSlug})

	assert.ErrorContains(t, err, "failed to store collection snapshot")
}

func TestIngestor_PurgeCollection(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.store.EXPECT().GetCollection(ctx, testSlug).Return(&schema.Collection{Slug: testSlug}, nil)
	m.store.EXPECT().PurgeCollection(ctx, testSlug).Return(nil)
	m.publisher.EXPECT().PublishEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.CollectionEvent) error {
			assert.Equal(t, domain.EventTypeCollectionPurged, event.Type)
			return errors.New("broker down")
		})

	assert.NoError(t, ing.PurgeCollection(ctx, testSlug))
}

func TestIngestor_PurgeCollection_NotFound(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	ing := ingest.NewIngestor(m.store, m.client, nil, m.syncer, m.publisher, m.clock, adapter.NewJSON(), config.IngestConfig{})

	m.store.EXPECT().GetCollection(ctx, "missing").Return(nil, nil)

	err := ing.PurgeCollection(ctx, "missing")

	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func event(eventType opensea.EventType, tokenID string, at time.Time) opensea.Event {
	return opensea.Event{
		EventType:   eventType,
		Asset:       &opensea.EmbeddedAsset{TokenID: tokenID},
		CreatedDate: opensea.NaiveTime{Time: at},
	}
}

func TestSyncer_SyncCollection(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	s := ingest.NewSyncer(m.store, m.client, m.publisher, m.clock, config.IngestConfig{})

	cursor := testNow.Add(-time.Hour)
	m.store.EXPECT().GetCollection(ctx, testSlug).Return(&schema.Collection{Slug: testSlug, ContractAddress: testContract}, nil)
	m.store.EXPECT().GetSyncCursor(ctx, testSlug+":events").Return(&cursor, nil)
	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{Stats: opensea.CollectionStats{FloorPrice: floatPtr(0.8)}}, nil)
	m.store.EXPECT().UpdateCollectionFloor(ctx, testSlug, 0.8).Return(nil)

	created := event(opensea.EventTypeCreated, "1", testNow.Add(-50*time.Minute))
	created.EndingPrice = strPtr("1000000000000000000")
	createdNoPrice := event(opensea.EventTypeCreated, "4", testNow.Add(-50*time.Minute))

	ethSale := event(opensea.EventTypeSuccessful, "2", testNow.Add(-40*time.Minute))
	ethSale.TotalPrice = strPtr("3000000000000000000")
	ethSale.PaymentToken = &opensea.PaymentToken{Symbol: "ETH", Decimals: 18}
	ethSale.WinnerAccount = &opensea.Account{Address: "0x00000000000000000000000000000000000000aa"}

	usdcSale := event(opensea.EventTypeSuccessful, "3", testNow.Add(-30*time.Minute))
	usdcSale.TotalPrice = strPtr("5000000")
	usdcSale.PaymentToken = &opensea.PaymentToken{Symbol: "USDC", Decimals: 6}

	transfer := event(opensea.EventTypeTransfer, "2", testNow.Add(-10*time.Minute))
	transfer.ToAccount = &opensea.Account{Address: "0x00000000000000000000000000000000000000bb"}

	expectEvents := func(eventType opensea.EventType, events ...opensea.Event) {
		m.client.EXPECT().GetEvents(ctx, opensea.EventsRequest{
			AssetContractAddress: testContract,
			EventType:            eventType,
			OccurredAfter:        cursor,
		}).Return(events, nil)
	}
	expectEvents(opensea.EventTypeCancelled, event(opensea.EventTypeCancelled, "5", testNow.Add(-55*time.Minute)), opensea.Event{})
	expectEvents(opensea.EventTypeSuccessful, ethSale, usdcSale)
	expectEvents(opensea.EventTypeCreated, created, createdNoPrice)
	expectEvents(opensea.EventTypeTransfer, transfer)

	m.store.EXPECT().CreateListings(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, listings []schema.Listing) error {
			require.Len(t, listings, 4)
			byType := make(map[schema.ListingUpdateType]int)
			for _, l := range listings {
				byType[l.UpdateType]++
				if l.UpdateType == schema.ListingUpdateTypeCreated {
					require.NotNil(t, l.Price)
					assert.InDelta(t, 1.0, *l.Price, 1e-9)
				} else {
					assert.Nil(t, l.Price)
				}
			}
			assert.Equal(t, 1, byType[schema.ListingUpdateTypeCancelled])
			assert.Equal(t, 2, byType[schema.ListingUpdateTypeSuccessful])
			assert.Equal(t, 1, byType[schema.ListingUpdateTypeCreated])
			return nil
		})
	m.store.EXPECT().CreateSales(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, sales []schema.Sale) error {
			require.Len(t, sales, 1)
			assert.Equal(t, int64(2), sales[0].TokenID)
			assert.InDelta(t, 3.0, sales[0].Price, 1e-9)
			return nil
		})
	// the later transfer wins over the sale's winner
	m.store.EXPECT().UpdateTokenOwner(ctx, testSlug, int64(2), domain.NormalizeAddress(transfer.ToAccount.Address)).Return(nil)
	m.store.EXPECT().SetSyncCursor(ctx, testSlug+":events", testNow).Return(nil)
	m.publisher.EXPECT().PublishEvent(ctx, gomock.Any()).Return(nil)

	result, err := s.SyncCollection(ctx, testSlug, nil)
	require.NoError(t, err)

	assert.Equal(t, cursor, result.Since)
	assert.Equal(t, 4, result.Listings)
	assert.Equal(t, 1, result.Sales)
	assert.Equal(t, 1, result.Owners)
	assert.Equal(t, 2, result.Skipped)
}

func TestSyncer_SyncCollection_StartsFromBackfillWindow(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	s := ingest.NewSyncer(m.store, m.client, nil, m.clock, config.IngestConfig{EventsBackfill: 48 * time.Hour})

	m.store.EXPECT().GetCollection(ctx, testSlug).Return(&schema.Collection{Slug: testSlug, ContractAddress: testContract}, nil)
	m.store.EXPECT().GetSyncCursor(ctx, testSlug+":events").Return(nil, nil)
	m.store.EXPECT().GetLatestListingTime(ctx, testSlug).Return(nil, nil)
	m.client.EXPECT().GetCollection(ctx, testSlug).Return(nil, errors.New("rate limited"))
	m.client.EXPECT().GetEvents(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req opensea.EventsRequest) ([]opensea.Event, error) {
			assert.Equal(t, testNow.Add(-48*time.Hour), req.OccurredAfter)
			return nil, nil
		}).Times(4)
	m.store.EXPECT().SetSyncCursor(ctx, testSlug+":events", testNow).Return(nil)

	result, err := s.SyncCollection(ctx, testSlug, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Listings)
}

func TestSyncer_SyncCollection_EventsError(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	s := ingest.NewSyncer(m.store, m.client, m.publisher, m.clock, config.IngestConfig{})
	since := testNow.Add(-time.Hour)

	m.store.EXPECT().GetCollection(ctx, testSlug).Return(&schema.Collection{Slug: testSlug}, nil)
	m.client.EXPECT().GetCollection(ctx, testSlug).Return(&opensea.Collection{}, nil)
	m.client.EXPECT().GetEvents(ctx, gomock.Any()).Return(nil, errors.New("boom"))

	_, err := s.SyncCollection(ctx, testSlug, &since)

	assert.ErrorContains(t, err, "failed to get cancelled events")
}

func TestSyncer_SyncCollection_UnknownCollection(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	s := ingest.NewSyncer(m.store, m.client, m.publisher, m.clock, config.IngestConfig{})

	m.store.EXPECT().GetCollection(ctx, "missing").Return(nil, nil)

	_, err := s.SyncCollection(ctx, "missing", nil)

	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestSyncer_SyncAll_JoinsErrors(t *testing.T) {
	m := newIngestMocks(t)
	ctx := context.Background()
	s := ingest.NewSyncer(m.store, m.client, nil, m.clock, config.IngestConfig{})
	since := testNow.Add(-time.Hour)

	m.store.EXPECT().ListCollections(ctx).Return([]schema.Collection{{Slug: "a"}, {Slug: "b"}}, nil)

	m.store.EXPECT().GetCollection(ctx, "a").Return(nil, errors.New("db down"))

	m.store.EXPECT().GetCollection(ctx, "b").Return(&schema.Collection{Slug: "b"}, nil)
	m.store.EXPECT().GetSyncCursor(ctx, "b:events").Return(&since, nil)
	m.client.EXPECT().GetCollection(ctx, "b").Return(&opensea.Collection{}, nil)
	m.client.EXPECT().GetEvents(ctx, gomock.Any()).Return(nil, nil).Times(4)
	m.store.EXPECT().SetSyncCursor(ctx, "b:events", testNow).Return(nil)

	err := s.SyncAll(ctx)

	require.Error(t, err)
	assert.ErrorContains(t, err, "a: failed to get collection")
	assert.NotContains(t, err.Error(), "b:")
}

func TestRefresher_RefreshListing(t *testing.T) {
	collection := domain.CollectionConfig{Slug: testSlug}

	t.Run("listed", func(t *testing.T) {
		m := newIngestMocks(t)
		ctx := context.Background()
		r := ingest.NewRefresher(m.store, m.client, m.clock)

		a := asset("7", "0xabc", nil, opensea.SellOrder{CurrentPrice: "2500000000000000000"})
		m.client.EXPECT().GetAsset(ctx, testSlug, int64(7)).Return(&a, nil)
		m.store.EXPECT().CreateListings(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, listings []schema.Listing) error {
				require.Len(t, listings, 1)
				assert.Equal(t, schema.ListingUpdateTypeSellOrder, listings[0].UpdateType)
				assert.Equal(t, testNow, listings[0].Timestamp)
				return nil
			})

		listing, err := r.RefreshListing(ctx, collection, 7)
		require.NoError(t, err)
		require.True(t, listing.Listed())
		assert.InDelta(t, 2.5, *listing.Price, 1e-9)
	})

	t.Run("unlisted", func(t *testing.T) {
		m := newIngestMocks(t)
		ctx := context.Background()
		r := ingest.NewRefresher(m.store, m.client, m.clock)

		a := asset("7", "0xabc", nil)
		m.client.EXPECT().GetAsset(ctx, testSlug, int64(7)).Return(&a, nil)
		m.store.EXPECT().CreateListings(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, listings []schema.Listing) error {
				assert.Equal(t, schema.ListingUpdateTypeCancelled, listings[0].UpdateType)
				assert.Nil(t, listings[0].Price)
				return nil
			})

		listing, err := r.RefreshListing(ctx, collection, 7)
		require.NoError(t, err)
		assert.False(t, listing.Listed())
		assert.Equal(t, domain.UpdateTypeCancelled, listing.Type)
	})

	t.Run("missing asset", func(t *testing.T) {
		m := newIngestMocks(t)
		ctx := context.Background()
		r := ingest.NewRefresher(m.store, m.client, m.clock)

		m.client.EXPECT().GetAsset(ctx, testSlug, int64(7)).Return(nil, nil)

		_, err := r.RefreshListing(ctx, collection, 7)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})

	t.Run("upstream error", func(t *testing.T) {
		m := newIngestMocks(t)
		ctx := context.Background()
		r := ingest.NewRefresher(m.store, m.client, m.clock)

		m.client.EXPECT().GetAsset(ctx, testSlug, int64(7)).Return(nil, errors.New("timeout"))

		_, err := r.RefreshListing(ctx, collection, 7)
		assert.ErrorContains(t, err, "failed to fetch asset")
	})
}
