package store

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 {
	return &v
}

func buildTestSnapshot(slug string) CollectionSnapshot {
	return CollectionSnapshot{
		Collection: schema.Collection{
			Slug:                     slug,
			ContractAddress:          "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			TotalSupply:              3,
			FloorPrice:               1.5,
			AvgTraitRarity:           2,
			RarityMultiplier:         1,
			RarityCutoff:             2.0 / 3.0,
			IgnoredTraitTypesRarity:  pq.StringArray{"serial"},
			IgnoredTraitTypesOverlap: pq.StringArray{"serial"},
			TraitHistogram:           datatypes.JSON(`{"background":{"blue":2,"red":1}}`),
		},
		Traits: []schema.Trait{
			{TraitID: "background:blue", TraitType: "background", TraitValue: "blue", TraitCount: 2},
			{TraitID: "background:red", TraitType: "background", TraitValue: "red", TraitCount: 1},
			{TraitID: "eyes:laser", TraitType: "eyes", TraitValue: "laser", TraitCount: 3},
		},
		Tokens: []schema.Token{
			{TokenID: 1, Owner: "0xaaa", Traits: pq.StringArray{"background:blue", "eyes:laser"}, OverlapsComputed: true},
			{TokenID: 2, Owner: "0xaaa", Traits: pq.StringArray{"background:blue", "eyes:laser"}, OverlapsComputed: true},
			{TokenID: 3, Owner: "0xbbb", Traits: pq.StringArray{"background:red", "eyes:laser"}},
		},
	}
}

func seedSnapshot(t *testing.T, store Store, slug string) {
	t.Helper()
	require.NoError(t, store.ReplaceCollectionSnapshot(context.Background(), buildTestSnapshot(slug)))
}

// =============================================================================
// Tests
// =============================================================================

func testCollectionSnapshot(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("snapshot creates collection, traits and tokens", func(t *testing.T) {
		seedSnapshot(t, store, "alpha")

		collection, err := store.GetCollection(ctx, "alpha")
		require.NoError(t, err)
		require.NotNil(t, collection)
		assert.Equal(t, int64(3), collection.TotalSupply)
		assert.Equal(t, pq.StringArray{"serial"}, collection.IgnoredTraitTypesRarity)

		traits, err := store.GetAllTraits(ctx, "alpha")
		require.NoError(t, err)
		assert.Len(t, traits, 3)

		token, err := store.GetToken(ctx, "alpha", 3)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, pq.StringArray{"background:red", "eyes:laser"}, token.Traits)
		assert.False(t, token.OverlapsComputed)
	})

	t.Run("re-ingestion replaces traits and tokens wholesale", func(t *testing.T) {
		seedSnapshot(t, store, "beta")

		next := buildTestSnapshot("beta")
		next.Collection.TotalSupply = 1
		next.Traits = next.Traits[:1]
		next.Tokens = next.Tokens[:1]
		require.NoError(t, store.ReplaceCollectionSnapshot(ctx, next))

		collection, err := store.GetCollection(ctx, "beta")
		require.NoError(t, err)
		assert.Equal(t, int64(1), collection.TotalSupply)

		traits, err := store.GetAllTraits(ctx, "beta")
		require.NoError(t, err)
		assert.Len(t, traits, 1)

		token, err := store.GetToken(ctx, "beta", 2)
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("missing collection returns nil", func(t *testing.T) {
		collection, err := store.GetCollection(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, collection)
	})

	t.Run("list and floor update", func(t *testing.T) {
		seedSnapshot(t, store, "gamma")
		require.NoError(t, store.UpdateCollectionFloor(ctx, "gamma", 2.25))

		collections, err := store.ListCollections(ctx)
		require.NoError(t, err)
		var found bool
		for _, c := range collections {
			if c.Slug == "gamma" {
				found = true
				assert.InDelta(t, 2.25, c.FloorPrice, 1e-9)
			}
		}
		assert.True(t, found)
	})
}

func testTraitsAndTokens(t *testing.T, store Store) {
	ctx := context.Background()
	seedSnapshot(t, store, "alpha")

	traits, err := store.GetTraits(ctx, "alpha", []string{"background:red", "unknown:x"})
	require.NoError(t, err)
	require.Len(t, traits, 1)
	assert.Equal(t, int64(1), traits[0].TraitCount)

	empty, err := store.GetTraits(ctx, "alpha", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	count, err := store.CountTokensByOwner(ctx, "alpha", "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.UpdateTokenOwner(ctx, "alpha", 1, "0xccc"))
	token, err := store.GetToken(ctx, "alpha", 1)
	require.NoError(t, err)
	assert.Equal(t, "0xccc", token.Owner)
}

func testListings(t *testing.T, store Store) {
	ctx := context.Background()
	seedSnapshot(t, store, "alpha")

	require.NoError(t, store.CreateListings(ctx, []schema.Listing{
		{CollectionSlug: "alpha", TokenID: 1, UpdateType: schema.ListingUpdateTypeCreated, Price: ptr(2.0), Timestamp: baseTime},
		{CollectionSlug: "alpha", TokenID: 1, UpdateType: schema.ListingUpdateTypeCancelled, Timestamp: baseTime.Add(time.Hour)},
		{CollectionSlug: "alpha", TokenID: 2, UpdateType: schema.ListingUpdateTypeCreated, Price: ptr(3.0), Timestamp: baseTime},
		{CollectionSlug: "alpha", TokenID: 3, UpdateType: schema.ListingUpdateTypeSellOrder, Price: ptr(1.0), Timestamp: baseTime.Add(2 * time.Hour)},
	}))

	t.Run("duplicate events are skipped", func(t *testing.T) {
		require.NoError(t, store.CreateListings(ctx, []schema.Listing{
			{CollectionSlug: "alpha", TokenID: 2, UpdateType: schema.ListingUpdateTypeCreated, Price: ptr(3.0), Timestamp: baseTime},
		}))
		listings, err := store.GetListingsForToken(ctx, "alpha", 2, time.Time{})
		require.NoError(t, err)
		assert.Len(t, listings, 1)
	})

	t.Run("latest listing per token holding a trait", func(t *testing.T) {
		listings, err := store.GetLatestListingsForTrait(ctx, "alpha", "background:blue", baseTime.Add(24*time.Hour))
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.Equal(t, int64(1), listings[0].TokenID)
		assert.Nil(t, listings[0].Price)
		assert.Equal(t, int64(2), listings[1].TokenID)
		assert.InDelta(t, 3.0, *listings[1].Price, 1e-9)
	})

	t.Run("as-of time hides later events", func(t *testing.T) {
		listings, err := store.GetLatestListingsForTrait(ctx, "alpha", "background:blue", baseTime.Add(30*time.Minute))
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.InDelta(t, 2.0, *listings[0].Price, 1e-9)
	})

	t.Run("latest listing of a token", func(t *testing.T) {
		listing, err := store.GetLatestListing(ctx, "alpha", 1)
		require.NoError(t, err)
		require.NotNil(t, listing)
		assert.Equal(t, schema.ListingUpdateTypeCancelled, listing.UpdateType)

		none, err := store.GetLatestListing(ctx, "alpha", 99)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("listed tokens and event counts", func(t *testing.T) {
		listed, err := store.CountListedTokens(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, int64(2), listed)

		created, err := store.CountListingEvents(ctx, "alpha", schema.ListingUpdateTypeCreated, baseTime)
		require.NoError(t, err)
		assert.Equal(t, int64(2), created)

		latest, err := store.GetLatestListingTime(ctx, "alpha")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, latest.Equal(baseTime.Add(2*time.Hour)))
	})
}

func testSales(t *testing.T, store Store) {
	ctx := context.Background()
	seedSnapshot(t, store, "alpha")

	require.NoError(t, store.CreateSales(ctx, []schema.Sale{
		{CollectionSlug: "alpha", TokenID: 1, Price: 1.0, Timestamp: baseTime},
		{CollectionSlug: "alpha", TokenID: 3, Price: 4.0, Timestamp: baseTime.Add(time.Hour)},
		{CollectionSlug: "alpha", TokenID: 1, Price: 2.0, Timestamp: baseTime.Add(2 * time.Hour)},
	}))

	t.Run("token sales are ordered oldest first", func(t *testing.T) {
		sales, err := store.GetSalesForToken(ctx, "alpha", 1)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.InDelta(t, 1.0, sales[0].Price, 1e-9)
		assert.InDelta(t, 2.0, sales[1].Price, 1e-9)
	})

	t.Run("trait sales only include holders", func(t *testing.T) {
		sales, err := store.GetSalesForTrait(ctx, "alpha", "background:red", time.Time{})
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, int64(3), sales[0].TokenID)
	})

	t.Run("average before a timestamp is strict", func(t *testing.T) {
		avg, err := store.GetAvgSalePrice(ctx, "alpha", nil, baseTime.Add(2*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 2.5, *avg, 1e-9)

		none, err := store.GetAvgSalePrice(ctx, "alpha", nil, baseTime)
		require.NoError(t, err)
		assert.Nil(t, none)

		trait := "background:blue"
		traitAvg, err := store.GetAvgSalePrice(ctx, "alpha", &trait, baseTime.Add(24*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, traitAvg)
		assert.InDelta(t, 1.5, *traitAvg, 1e-9)
	})

	t.Run("sales above a price", func(t *testing.T) {
		count, err := store.CountSalesAbove(ctx, "alpha", 1.5, baseTime)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("collection sales window", func(t *testing.T) {
		sales, err := store.GetCollectionSales(ctx, "alpha", baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, sales, 2)

		latest, err := store.GetLatestSaleTime(ctx, "alpha")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, latest.Equal(baseTime.Add(2*time.Hour)))
	})
}

func testPurgeCollection(t *testing.T, store Store) {
	ctx := context.Background()
	seedSnapshot(t, store, "alpha")
	seedSnapshot(t, store, "keep")

	require.NoError(t, store.CreateSales(ctx, []schema.Sale{{CollectionSlug: "alpha", TokenID: 1, Price: 1, Timestamp: baseTime}}))
	require.NoError(t, store.SetSyncCursor(ctx, "alpha:listings", baseTime))

	require.NoError(t, store.PurgeCollection(ctx, "alpha"))

	collection, err := store.GetCollection(ctx, "alpha")
	require.NoError(t, err)
	assert.Nil(t, collection)

	sales, err := store.GetSalesForToken(ctx, "alpha", 1)
	require.NoError(t, err)
	assert.Empty(t, sales)

	cursor, err := store.GetSyncCursor(ctx, "alpha:listings")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	kept, err := store.GetCollection(ctx, "keep")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func testPurgeCollectionKeepsSimilarCursors(t *testing.T, store Store) {
	ctx := context.Background()
	require.NoError(t, store.SetSyncCursor(ctx, "a_b:events", baseTime))
	require.NoError(t, store.SetSyncCursor(ctx, "axb:events", baseTime))

	require.NoError(t, store.PurgeCollection(ctx, "a_b"))

	cursor, err := store.GetSyncCursor(ctx, "a_b:events")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	cursor, err = store.GetSyncCursor(ctx, "axb:events")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.True(t, cursor.Equal(baseTime))
}

func testSyncCursor(t *testing.T, store Store) {
	ctx := context.Background()

	cursor, err := store.GetSyncCursor(ctx, "alpha:sales")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	require.NoError(t, store.SetSyncCursor(ctx, "alpha:sales", baseTime))
	require.NoError(t, store.SetSyncCursor(ctx, "alpha:sales", baseTime.Add(time.Minute)))

	cursor, err = store.GetSyncCursor(ctx, "alpha:sales")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.True(t, cursor.Equal(baseTime.Add(time.Minute)))
}

// RunStoreTests runs every store test against the implementation returned by initDB
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CollectionSnapshot", testCollectionSnapshot},
		{"TraitsAndTokens", testTraitsAndTokens},
		{"Listings", testListings},
		{"Sales", testSales},
		{"PurgeCollection", testPurgeCollection},
		{"PurgeCollectionKeepsSimilarCursors", testPurgeCollectionKeepsSimilarCursors},
		{"SyncCursor", testSyncCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, initDB(t))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `sync_cursor:a\_b:`, escapeLike("sync_cursor:a_b:"))
	assert.Equal(t, `100\%\\`, escapeLike(`100%\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestCalculateSafeBatchSize(t *testing.T) {
	assert.Equal(t, 10, calculateSafeBatchSize(10, 5))
	assert.Equal(t, (65535-1000)/16, calculateSafeBatchSize(100000, 16))
	assert.Equal(t, 1, calculateSafeBatchSize(5, 100000))
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 5, idle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(3, 10, time.Minute, time.Minute)
	assert.Equal(t, 3, open)
	assert.Equal(t, 3, idle)
}
