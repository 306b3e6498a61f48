package store

import (
	"context"
	"time"

	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// CollectionSnapshot is a complete collection ingestion result that replaces
// the previous traits and tokens of the collection atomically
type CollectionSnapshot struct {
	Collection schema.Collection
	Traits     []schema.Trait
	Tokens     []schema.Token
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetCollection retrieves a collection by slug; nil when it does not exist
	GetCollection(ctx context.Context, slug string) (*schema.Collection, error)
	// ListCollections returns every ingested collection ordered by slug
	ListCollections(ctx context.Context) ([]schema.Collection, error)
	// UpdateCollectionFloor stores the latest collection-wide floor price
	UpdateCollectionFloor(ctx context.Context, slug string, floor float64) error
	// ReplaceCollectionSnapshot upserts the collection and swaps its traits and tokens in one transaction
	ReplaceCollectionSnapshot(ctx context.Context, snapshot CollectionSnapshot) error
	// PurgeCollection deletes the collection and every row that belongs to it
	PurgeCollection(ctx context.Context, slug string) error

	// GetTraits retrieves the given traits of a collection; unknown ids are skipped
	GetTraits(ctx context.Context, slug string, traitIDs []string) ([]schema.Trait, error)
	// GetAllTraits retrieves every trait of a collection
	GetAllTraits(ctx context.Context, slug string) ([]schema.Trait, error)

	// GetToken retrieves a token; nil when it does not exist
	GetToken(ctx context.Context, slug string, tokenID int64) (*schema.Token, error)
	// CountTokensByOwner counts the tokens of a collection held by owner
	CountTokensByOwner(ctx context.Context, slug string, owner string) (int64, error)
	// UpdateTokenOwner records a new owner for a token
	UpdateTokenOwner(ctx context.Context, slug string, tokenID int64, owner string) error

	// GetLatestListingsForTrait returns, for every token holding the trait, its most recent listing at or before asOf
	GetLatestListingsForTrait(ctx context.Context, slug string, traitID string, asOf time.Time) ([]schema.Listing, error)
	// GetLatestListing returns the most recent listing of a token; nil when it has none
	GetLatestListing(ctx context.Context, slug string, tokenID int64) (*schema.Listing, error)
	// GetListingsForToken returns the listing events of a token since the given time, oldest first
	GetListingsForToken(ctx context.Context, slug string, tokenID int64, since time.Time) ([]schema.Listing, error)
	// CountListedTokens counts tokens of a collection whose most recent listing carries a price
	CountListedTokens(ctx context.Context, slug string) (int64, error)
	// CountListingEvents counts listing events of a given type since the given time
	CountListingEvents(ctx context.Context, slug string, updateType schema.ListingUpdateType, since time.Time) (int64, error)
	// GetLatestListingTime returns the timestamp of the newest listing event; nil when there is none
	GetLatestListingTime(ctx context.Context, slug string) (*time.Time, error)
	// CreateListings appends listing events, skipping ones already stored
	CreateListings(ctx context.Context, listings []schema.Listing) error

	// GetSalesForToken returns every sale of a token, oldest first
	GetSalesForToken(ctx context.Context, slug string, tokenID int64) ([]schema.Sale, error)
	// GetSalesForTrait returns the sales of tokens holding the trait since the given time, oldest first
	GetSalesForTrait(ctx context.Context, slug string, traitID string, since time.Time) ([]schema.Sale, error)
	// GetCollectionSales returns the collection sales since the given time, oldest first
	GetCollectionSales(ctx context.Context, slug string, since time.Time) ([]schema.Sale, error)
	// GetAvgSalePrice averages sales strictly before the given time, optionally restricted to holders of a trait; nil when no sale qualifies
	GetAvgSalePrice(ctx context.Context, slug string, traitID *string, before time.Time) (*float64, error)
	// CountSalesAbove counts collection sales above price since the given time
	CountSalesAbove(ctx context.Context, slug string, price float64, since time.Time) (int64, error)
	// GetLatestSaleTime returns the timestamp of the newest sale; nil when there is none
	GetLatestSaleTime(ctx context.Context, slug string) (*time.Time, error)
	// CreateSales appends sales, skipping ones already stored
	CreateSales(ctx context.Context, sales []schema.Sale) error

	// GetSyncCursor retrieves a named sync checkpoint; nil when unset
	GetSyncCursor(ctx context.Context, name string) (*time.Time, error)
	// SetSyncCursor stores a named sync checkpoint
	SetSyncCursor(ctx context.Context, name string, at time.Time) error
}
