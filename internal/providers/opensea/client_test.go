package opensea_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/mocks"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
)

const testAPIURL = "https://api.opensea.io/api/v1"

var expectedHeaders = map[string]string{
	"X-API-KEY": "test-api-key",
	"Accept":    "application/json",
}

func TestOpenSeaClient_GetCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, adapter.NewJSON())

	ctx := context.Background()
	responseJSON := []byte(`{
		"collection": {
			"slug": "cool-cats",
			"primary_asset_contracts": [{"address": "0x1a92f7381b9f03921564a437210bb9396471050c", "schema_name": "ERC721"}],
			"traits": {"background": {"blue": 2, "red": 1}},
			"stats": {"total_supply": 3, "total_sales": 10, "floor_price": 1.25}
		}
	}`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, testAPIURL+"/collection/cool-cats", expectedHeaders).
		Return(responseJSON, nil)

	collection, err := client.GetCollection(ctx, "cool-cats")

	require.NoError(t, err)
	assert.Equal(t, "cool-cats", collection.Slug)
	assert.Equal(t, "0x1a92f7381b9f03921564a437210bb9396471050c", collection.ContractAddress())
	assert.Equal(t, int64(2), collection.Traits["background"]["blue"])
	assert.Equal(t, 3.0, collection.Stats.TotalSupply)
	require.NotNil(t, collection.Stats.FloorPrice)
	assert.Equal(t, 1.25, *collection.Stats.FloorPrice)
}

func TestOpenSeaClient_GetCollection_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, adapter.NewJSON())

	mockHTTPClient.EXPECT().
		GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, adapter.ErrHTTPNotFound)

	collection, err := client.GetCollection(context.Background(), "missing")

	assert.Nil(t, collection)
	assert.ErrorIs(t, err, opensea.ErrCollectionNotFound)
}

func TestOpenSeaClient_NoAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	mockJSON := mocks.NewMockJSON(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "", 50, mockJSON)

	asset, err := client.GetAsset(context.Background(), "cool-cats", 1)

	assert.Nil(t, asset)
	assert.ErrorIs(t, err, opensea.ErrNoAPIKey)
}

func TestOpenSeaClient_UnmarshalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	mockJSON := mocks.NewMockJSON(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, mockJSON)

	ctx := context.Background()
	responseJSON := []byte(`invalid json`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return(responseJSON, nil)
	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		Return(assert.AnError)

	collection, err := client.GetCollection(ctx, "cool-cats")

	assert.Nil(t, collection)
	assert.Contains(t, err.Error(), "failed to unmarshal OpenSea response")
}

func TestOpenSeaClient_GetAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	mockJSON := mocks.NewMockJSON(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, mockJSON)

	ctx := context.Background()
	responseJSON := []byte(`{"assets": [...]}`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, testAPIURL+"/assets?collection=cool-cats&token_ids=7", expectedHeaders).
		Return(responseJSON, nil)
	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		DoAndReturn(func(data []byte, v interface{}) error {
			resp := v.(*opensea.AssetsResponse)
			resp.Assets = []opensea.Asset{{
				TokenID:    "7",
				Name:       "Cool Cat #7",
				Owner:      opensea.Account{Address: "0xabc"},
				SellOrders: []opensea.SellOrder{{CurrentPrice: "2000000000000000000"}, {CurrentPrice: "1500000000000000000.000"}},
			}}
			return nil
		})

	asset, err := client.GetAsset(ctx, "cool-cats", 7)

	require.NoError(t, err)
	require.NotNil(t, asset)
	id, err := asset.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	order, price := asset.CheapestSellOrder()
	require.NotNil(t, order)
	assert.InDelta(t, 1.5, price, 1e-9)
}

func TestOpenSeaClient_GetAsset_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, adapter.NewJSON())

	mockHTTPClient.EXPECT().
		GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"assets": []}`), nil)

	asset, err := client.GetAsset(context.Background(), "cool-cats", 7)

	assert.NoError(t, err)
	assert.Nil(t, asset)
}

func TestOpenSeaClient_GetAllAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 2, adapter.NewJSON())

	ctx := context.Background()
	gomock.InOrder(
		mockHTTPClient.EXPECT().
			GetBytes(ctx, testAPIURL+"/assets?collection=cool-cats&limit=2&offset=0", expectedHeaders).
			Return([]byte(`{"assets": [{"token_id": "1"}, {"token_id": "2"}]}`), nil),
		mockHTTPClient.EXPECT().
			GetBytes(ctx, testAPIURL+"/assets?collection=cool-cats&limit=2&offset=2", expectedHeaders).
			Return([]byte(`{"assets": [{"token_id": "3", "traits": [{"trait_type": "Level", "value": 5}]}]}`), nil),
		mockHTTPClient.EXPECT().
			GetBytes(ctx, testAPIURL+"/assets?collection=cool-cats&limit=2&offset=3", expectedHeaders).
			Return([]byte(`{"assets": []}`), nil),
	)

	assets, err := client.GetAllAssets(ctx, "cool-cats")

	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "3", assets[2].TokenID)
	require.Len(t, assets[2].Traits, 1)
	assert.Equal(t, "5", assets[2].Traits[0].ValueString())
}

func TestOpenSeaClient_GetEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 2, adapter.NewJSON())

	ctx := context.Background()
	after := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	base := testAPIURL + "/events?asset_contract_address=0xabc&event_type=successful&limit=2&occurred_after=1640995200"

	gomock.InOrder(
		mockHTTPClient.EXPECT().
			GetBytes(ctx, base+"&offset=0", expectedHeaders).
			Return([]byte(`{"asset_events": [
				{"event_type": "successful", "asset": {"token_id": "2"}, "total_price": "3000000000000000000",
				 "payment_token": {"symbol": "ETH", "decimals": 18}, "winner_account": {"address": "0xdef"},
				 "created_date": "2022-01-03T10:00:00.123456"},
				{"event_type": "successful", "asset": {"token_id": "1"}, "total_price": "1000000",
				 "payment_token": {"symbol": "USDC", "decimals": 6}, "created_date": "2022-01-02T10:00:00"}
			]}`), nil),
		mockHTTPClient.EXPECT().
			GetBytes(ctx, base+"&offset=2", expectedHeaders).
			Return([]byte(`{"asset_events": []}`), nil),
	)

	events, err := client.GetEvents(ctx, opensea.EventsRequest{
		AssetContractAddress: "0xabc",
		EventType:            opensea.EventTypeSuccessful,
		OccurredAfter:        after,
	})

	require.NoError(t, err)
	require.Len(t, events, 2)

	// oldest first
	assert.Equal(t, "1", events[0].Asset.TokenID)
	assert.False(t, events[0].PaidInETH())
	usdc, err := events[0].Price()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, usdc, 1e-9)

	assert.True(t, events[1].PaidInETH())
	price, err := events[1].Price()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, price, 1e-9)
	assert.Equal(t, time.Date(2022, 1, 3, 10, 0, 0, 123456000, time.UTC), events[1].CreatedDate.Time)
	assert.Equal(t, "0xdef", events[1].WinnerAccount.Address)
}

func TestOpenSeaClient_RequestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := opensea.NewClient(mockHTTPClient, nil, testAPIURL, "test-api-key", 50, adapter.NewJSON())

	mockHTTPClient.EXPECT().
		GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	events, err := client.GetEvents(context.Background(), opensea.EventsRequest{EventType: opensea.EventTypeCreated})

	assert.Nil(t, events)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to call OpenSea API")
}

func TestFromWei(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		expected float64
		wantErr  bool
	}{
		{name: "one ether", amount: "1000000000000000000", decimals: 18, expected: 1},
		{name: "fractional", amount: "250000000000000000", decimals: 18, expected: 0.25},
		{name: "decimal notation", amount: "1500000000000000000.000000000000000", decimals: 18, expected: 1.5},
		{name: "six decimals", amount: "2500000", decimals: 6, expected: 2.5},
		{name: "invalid", amount: "abc", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := opensea.FromWei(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestEvent_ListingPrice(t *testing.T) {
	price := "420000000000000000"
	event := opensea.Event{EndingPrice: &price}

	got, err := event.ListingPrice()

	require.NoError(t, err)
	assert.InDelta(t, 0.42, got, 1e-12)

	_, err = (&opensea.Event{}).ListingPrice()
	assert.Error(t, err)
}
