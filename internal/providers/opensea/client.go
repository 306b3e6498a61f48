package opensea

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/ratelimit"
)

const PROVIDER_NAME = "opensea"

const (
	defaultPageSize = 50
	// maxPages bounds a single paginated walk
	maxPages = 1000
)

var (
	ErrNoAPIKey           = errors.New("no API key provided")
	ErrCollectionNotFound = errors.New("collection not found on marketplace")
)

// Client defines the interface for OpenSea client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/opensea_client.go -package=mocks -mock_names=Client=MockOpenSeaClient
type Client interface {
	// GetCollection fetches a collection with its stats and trait histogram
	GetCollection(ctx context.Context, slug string) (*Collection, error)
	// GetAssets fetches one page of assets of a collection
	GetAssets(ctx context.Context, slug string, offset, limit int) ([]Asset, error)
	// GetAllAssets walks every asset page of a collection
	GetAllAssets(ctx context.Context, slug string) ([]Asset, error)
	// GetAsset fetches a single asset with its sell orders; nil when it does not exist
	GetAsset(ctx context.Context, slug string, tokenID int64) (*Asset, error)
	// GetEvents walks every event page matching the request, oldest first
	GetEvents(ctx context.Context, req EventsRequest) ([]Event, error)
}

// OpenSeaClient implements OpenSea client
type OpenSeaClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiURL         string
	apiKey         string
	pageSize       int
	json           adapter.JSON
}

// NewClient creates a new OpenSea client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiURL string, apiKey string, pageSize int, json adapter.JSON) Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &OpenSeaClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiURL:         apiURL,
		apiKey:         apiKey,
		pageSize:       pageSize,
		json:           json,
	}
}

// GetCollection fetches a collection with its stats and trait histogram
func (c *OpenSeaClient) GetCollection(ctx context.Context, slug string) (*Collection, error) {
	var response CollectionResponse
	err := c.get(ctx, fmt.Sprintf("%s/collection/%s", c.apiURL, url.PathEscape(slug)), nil, &response)
	if err != nil {
		if errors.Is(err, adapter.ErrHTTPNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, slug)
		}
		return nil, err
	}

	return &response.Collection, nil
}

// GetAssets fetches one page of assets of a collection
func (c *OpenSeaClient) GetAssets(ctx context.Context, slug string, offset, limit int) ([]Asset, error) {
	query := url.Values{}
	query.Set("collection", slug)
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var response AssetsResponse
	if err := c.get(ctx, c.apiURL+"/assets", query, &response); err != nil {
		return nil, err
	}

	return response.Assets, nil
}

// GetAllAssets walks every asset page of a collection until an empty page
func (c *OpenSeaClient) GetAllAssets(ctx context.Context, slug string) ([]Asset, error) {
	var assets []Asset
	for page := 0; page < maxPages; page++ {
		batch, err := c.GetAssets(ctx, slug, len(assets), c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch assets at offset %d: %w", len(assets), err)
		}
		if len(batch) == 0 {
			break
		}
		assets = append(assets, batch...)
		logger.DebugCtx(ctx, "Fetched asset page", zap.String("collection", slug), zap.Int("total", len(assets)))
	}

	return assets, nil
}

// GetAsset fetches a single asset with its sell orders
func (c *OpenSeaClient) GetAsset(ctx context.Context, slug string, tokenID int64) (*Asset, error) {
	query := url.Values{}
	query.Set("collection", slug)
	query.Set("token_ids", strconv.FormatInt(tokenID, 10))

	var response AssetsResponse
	if err := c.get(ctx, c.apiURL+"/assets", query, &response); err != nil {
		return nil, err
	}
	if len(response.Assets) == 0 {
		return nil, nil
	}

	return &response.Assets[0], nil
}

// GetEvents walks every event page matching the request; results are ordered by creation date
func (c *OpenSeaClient) GetEvents(ctx context.Context, req EventsRequest) ([]Event, error) {
	query := url.Values{}
	if req.AssetContractAddress != "" {
		query.Set("asset_contract_address", req.AssetContractAddress)
	}
	if req.EventType != "" {
		query.Set("event_type", string(req.EventType))
	}
	if !req.OccurredAfter.IsZero() {
		query.Set("occurred_after", strconv.FormatInt(req.OccurredAfter.Unix(), 10))
	}
	query.Set("limit", strconv.Itoa(c.pageSize))

	var events []Event
	for page := 0; page < maxPages; page++ {
		query.Set("offset", strconv.Itoa(len(events)))

		var response EventsResponse
		if err := c.get(ctx, c.apiURL+"/events", query, &response); err != nil {
			return nil, fmt.Errorf("failed to fetch %s events at offset %d: %w", req.EventType, len(events), err)
		}
		if len(response.AssetEvents) == 0 {
			break
		}
		events = append(events, response.AssetEvents...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedDate.Before(events[j].CreatedDate.Time)
	})
	return events, nil
}

// get performs a rate limited GET and decodes the body into out
func (c *OpenSeaClient) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}
	headers := map[string]string{
		"X-API-KEY": c.apiKey,
		"Accept":    "application/json",
	}

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, endpoint, headers)
	})
	if err != nil {
		return fmt.Errorf("failed to call OpenSea API: %w", err)
	}

	if err := c.json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal OpenSea response: %w", err)
	}

	return nil
}
