package opensea

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventType is an asset event type of the events endpoint
type EventType string

const (
	EventTypeCreated    EventType = "created"
	EventTypeCancelled  EventType = "cancelled"
	EventTypeSuccessful EventType = "successful"
	EventTypeTransfer   EventType = "transfer"
)

// ETHSymbol is the payment token symbol of sales recorded as market data
const ETHSymbol = "ETH"

const ethDecimals = 18

// CollectionResponse represents the response of the collection endpoint
type CollectionResponse struct {
	Collection Collection `json:"collection"`
}

// Collection is a marketplace collection with its trait histogram
type Collection struct {
	Slug                  string          `json:"slug"`
	PrimaryAssetContracts []AssetContract `json:"primary_asset_contracts"`
	// Traits maps trait type -> value -> number of tokens
	Traits map[string]map[string]int64 `json:"traits"`
	Stats  CollectionStats             `json:"stats"`
}

// ContractAddress returns the address of the first primary asset contract
func (c *Collection) ContractAddress() string {
	if len(c.PrimaryAssetContracts) == 0 {
		return ""
	}
	return c.PrimaryAssetContracts[0].Address
}

// CollectionStats holds the aggregated market stats of a collection
type CollectionStats struct {
	TotalSupply float64  `json:"total_supply"`
	TotalSales  float64  `json:"total_sales"`
	FloorPrice  *float64 `json:"floor_price"`
}

// AssetContract is a contract backing a collection
type AssetContract struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	SchemaName string `json:"schema_name"`
}

// AssetsResponse represents a page of the assets endpoint
type AssetsResponse struct {
	Assets []Asset `json:"assets"`
}

// Asset is a collection item as returned by the assets endpoint
type Asset struct {
	TokenID    string      `json:"token_id"`
	Name       string      `json:"name"`
	ImageURL   string      `json:"image_url"`
	Permalink  string      `json:"permalink"`
	Owner      Account     `json:"owner"`
	Traits     []Trait     `json:"traits"`
	SellOrders []SellOrder `json:"sell_orders"`
}

// ID parses the token id
func (a *Asset) ID() (int64, error) {
	id, err := strconv.ParseInt(a.TokenID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", a.TokenID, err)
	}
	return id, nil
}

// Trait represents a trait/attribute of an asset
type Trait struct {
	TraitType  string      `json:"trait_type"`
	Value      interface{} `json:"value"`
	TraitCount *int64      `json:"trait_count"`
}

// ValueString renders the trait value; numeric values are formatted without exponent
func (t Trait) ValueString() string {
	switch v := t.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// SellOrder is an active fixed price order of an asset
type SellOrder struct {
	CurrentPrice string    `json:"current_price"`
	CreatedDate  NaiveTime `json:"created_date"`
	SaleKind     int       `json:"sale_kind"`
}

// Account is an address on an event or asset
type Account struct {
	Address string `json:"address"`
}

// PaymentToken is the currency an event was settled in
type PaymentToken struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// EmbeddedAsset is the asset stub carried by an event
type EmbeddedAsset struct {
	TokenID   string `json:"token_id"`
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
}

// ID parses the token id
func (a *EmbeddedAsset) ID() (int64, error) {
	id, err := strconv.ParseInt(a.TokenID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", a.TokenID, err)
	}
	return id, nil
}

// Event is an asset event: a listing, cancellation, sale or transfer
type Event struct {
	EventType     EventType      `json:"event_type"`
	Asset         *EmbeddedAsset `json:"asset"`
	TotalPrice    *string        `json:"total_price"`
	EndingPrice   *string        `json:"ending_price"`
	PaymentToken  *PaymentToken  `json:"payment_token"`
	ToAccount     *Account       `json:"to_account"`
	WinnerAccount *Account       `json:"winner_account"`
	CreatedDate   NaiveTime      `json:"created_date"`
}

// EventsResponse represents a page of the events endpoint
type EventsResponse struct {
	AssetEvents []Event `json:"asset_events"`
}

// EventsRequest filters the events endpoint
type EventsRequest struct {
	AssetContractAddress string
	EventType            EventType
	OccurredAfter        time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// NaiveTime is a timestamp without zone, interpreted as UTC
type NaiveTime struct {
	time.Time
}

// UnmarshalJSON parses the marketplace's zone-less datetime format
func (n *NaiveTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		n.Time = time.Time{}
		return nil
	}

	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			n.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

// MarshalJSON renders the time in the marketplace's zone-less format
func (n NaiveTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.UTC().Format("2006-01-02T15:04:05.999999") + `"`), nil
}

// FromWei converts an integer (or integral decimal) amount in the smallest unit into whole tokens
func FromWei(amount string, decimals int32) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(-decimals).InexactFloat64(), nil
}

// Price returns the settled price of a sale in whole tokens
func (e *Event) Price() (float64, error) {
	if e.TotalPrice == nil {
		return 0, fmt.Errorf("event has no total price")
	}
	decimals := int32(ethDecimals)
	if e.PaymentToken != nil && e.PaymentToken.Decimals > 0 {
		decimals = e.PaymentToken.Decimals
	}
	return FromWei(*e.TotalPrice, decimals)
}

// ListingPrice returns the asking price of a created listing in ETH
func (e *Event) ListingPrice() (float64, error) {
	if e.EndingPrice == nil {
		return 0, fmt.Errorf("event has no ending price")
	}
	return FromWei(*e.EndingPrice, ethDecimals)
}

// PaidInETH reports whether a sale was settled in ETH
func (e *Event) PaidInETH() bool {
	return e.PaymentToken != nil && e.PaymentToken.Symbol == ETHSymbol
}

// Price returns the asking price of the order in ETH
func (o *SellOrder) Price() (float64, error) {
	return FromWei(o.CurrentPrice, ethDecimals)
}

// CheapestSellOrder returns the lowest priced order with a valid price; nil when the asset is not listed
func (a *Asset) CheapestSellOrder() (*SellOrder, float64) {
	var best *SellOrder
	var bestPrice float64
	for i := range a.SellOrders {
		price, err := a.SellOrders[i].Price()
		if err != nil {
			continue
		}
		if best == nil || price < bestPrice {
			best, bestPrice = &a.SellOrders[i], price
		}
	}
	return best, bestPrice
}
