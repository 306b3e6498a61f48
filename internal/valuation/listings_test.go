package valuation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/store/schema"
	"github.com/feral-file/nft-valuation/internal/valuation"
)

var testCollection = domain.CollectionConfig{Slug: "cats", TotalSupply: 100}

func (m *engineMocks) resolver(maxRefreshes int) *valuation.ListingResolver {
	cfg := testValuationConfig()
	cfg.MaxListingRefreshes = maxRefreshes
	return valuation.NewListingResolver(m.store, m.refresher, m.clock, cfg)
}

func TestListedTokens_FreshListingsAreTrusted(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(3, domain.Float(4), time.Hour),
		listing(1, domain.Float(2), 30*time.Minute),
		listing(2, nil, time.Minute),
	}, nil)

	listed, err := m.resolver(3).ListedTokens(context.Background(), testCollection, "hat:crown")

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, int64(1), listed[0].TokenID)
	assert.Equal(t, 2.0, listed[0].Price)
	assert.Equal(t, int64(3), listed[1].TokenID)
}

func TestListedTokens_StaleListingIsRefreshed(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
		listing(2, domain.Float(2), 10*time.Minute),
	}, nil)
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(1)).
		Return(&domain.Listing{TokenID: 1, Type: domain.UpdateTypeSellOrder, Price: domain.Float(3), Timestamp: testNow}, nil)

	floor, err := m.resolver(3).TraitFloor(context.Background(), testCollection, "hat:crown")

	require.NoError(t, err)
	require.NotNil(t, floor)
	assert.Equal(t, int64(2), floor.TokenID)
	assert.Equal(t, 2.0, floor.Price)
}

func TestListedTokens_RefreshedUnlistedTokenIsDropped(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
	}, nil)
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(1)).
		Return(&domain.Listing{TokenID: 1, Type: domain.UpdateTypeCancelled, Timestamp: testNow}, nil)

	floor, err := m.resolver(3).TraitFloor(context.Background(), testCollection, "hat:crown")

	require.NoError(t, err)
	assert.Nil(t, floor)
}

func TestListedTokens_RefreshTimeoutKeepsStoredListing(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
	}, nil)
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(1)).
		DoAndReturn(func(ctx context.Context, _ domain.CollectionConfig, _ int64) (*domain.Listing, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	start := time.Now()
	floor, err := m.resolver(3).TraitFloor(context.Background(), testCollection, "hat:crown")

	require.NoError(t, err)
	require.NotNil(t, floor)
	assert.Equal(t, 1.0, floor.Price)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestListedTokens_RefreshesAreCapped(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
		listing(2, domain.Float(2), 4*time.Hour),
		listing(3, domain.Float(3), 5*time.Hour),
	}, nil)
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(1)).Return(nil, errors.New("rate limited"))
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(2)).Return(nil, errors.New("rate limited"))

	listed, err := m.resolver(2).ListedTokens(context.Background(), testCollection, "hat:crown")

	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestTraitListings_SharedStaleTokenIsRefreshedOnce(t *testing.T) {
	m := newEngineMocks(t)
	for _, trait := range []string{"eyes:laser", "hat:crown", "fur:gold"} {
		m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", trait, testNow).Return([]schema.Listing{
			listing(9, domain.Float(1), 3*time.Hour),
			listing(4, domain.Float(5), time.Minute),
		}, nil)
	}
	m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, int64(9)).
		Return(&domain.Listing{TokenID: 9, Type: domain.UpdateTypeSellOrder, Price: domain.Float(2), Timestamp: testNow}, nil).
		Times(1)

	listings, err := m.resolver(3).TraitListings(context.Background(), testCollection,
		[]domain.TraitID{"eyes:laser", "hat:crown", "fur:gold"})

	require.NoError(t, err)
	require.Len(t, listings, 3)
	for traitID, listed := range listings {
		require.Len(t, listed, 2, traitID)
		assert.Equal(t, int64(9), listed[0].TokenID, traitID)
		assert.Equal(t, 2.0, listed[0].Price, traitID)
	}
}

func TestTraitListings_RefreshCapSpansTraits(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
		listing(2, domain.Float(2), 3*time.Hour),
		listing(3, domain.Float(3), 3*time.Hour),
	}, nil)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "eyes:laser", testNow).Return([]schema.Listing{
		listing(4, domain.Float(1.5), 3*time.Hour),
		listing(5, domain.Float(2.5), 3*time.Hour),
	}, nil)
	// round-robin: the cheapest stale listing of each trait, then the next one of the first trait
	for _, tokenID := range []int64{1, 4, 2} {
		m.refresher.EXPECT().RefreshListing(gomock.Any(), testCollection, tokenID).Return(nil, errors.New("rate limited"))
	}

	listings, err := m.resolver(3).TraitListings(context.Background(), testCollection,
		[]domain.TraitID{"hat:crown", "eyes:laser"})

	require.NoError(t, err)
	assert.Len(t, listings["hat:crown"], 3)
	assert.Len(t, listings["eyes:laser"], 2)
}

func TestTraitFloors_SkipsTraitsWithoutListings(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).
		Return([]schema.Listing{listing(1, domain.Float(1), time.Minute)}, nil)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "eyes:laser", testNow).
		Return([]schema.Listing{listing(2, nil, time.Minute)}, nil)

	floors, err := m.resolver(3).TraitFloors(context.Background(), testCollection,
		[]domain.TraitID{"hat:crown", "eyes:laser"})

	require.NoError(t, err)
	require.Len(t, floors, 1)
	assert.Equal(t, int64(1), floors["hat:crown"].TokenID)
}

func TestListedTokens_StoreError(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return(nil, errors.New("db down"))

	_, err := m.resolver(2).ListedTokens(context.Background(), testCollection, "hat:crown")

	assert.ErrorContains(t, err, "db down")
}

func TestCountListedAndTokenListingPrice(t *testing.T) {
	m := newEngineMocks(t)
	m.store.EXPECT().GetLatestListingsForTrait(gomock.Any(), "cats", "hat:crown", testNow).Return([]schema.Listing{
		listing(1, domain.Float(1), 3*time.Hour),
		listing(2, nil, time.Hour),
	}, nil)
	m.store.EXPECT().GetLatestListing(gomock.Any(), "cats", int64(1)).Return(&schema.Listing{TokenID: 1, Price: domain.Float(1.25)}, nil)
	m.store.EXPECT().GetLatestListing(gomock.Any(), "cats", int64(2)).Return(nil, nil)

	r := m.resolver(2)

	count, err := r.CountListed(context.Background(), testCollection, "hat:crown")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	price, err := r.TokenListingPrice(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.25, *price)

	price, err = r.TokenListingPrice(context.Background(), "cats", 2)
	require.NoError(t, err)
	assert.Nil(t, price)
}
