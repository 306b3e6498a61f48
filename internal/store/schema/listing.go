package schema

import "time"

// ListingUpdateType is the kind of a listing event
type ListingUpdateType string

const (
	// ListingUpdateTypeCreated is a new listing on the marketplace
	ListingUpdateTypeCreated ListingUpdateType = "created"
	// ListingUpdateTypeCancelled is a listing withdrawn by its owner
	ListingUpdateTypeCancelled ListingUpdateType = "cancelled"
	// ListingUpdateTypeSuccessful is a listing filled by a sale
	ListingUpdateTypeSuccessful ListingUpdateType = "successful"
	// ListingUpdateTypeSellOrder is a sell order observed on an asset snapshot
	ListingUpdateTypeSellOrder ListingUpdateType = "sell_order"
)

// Listing represents the listings table - an append-only log of listing events
type Listing struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionSlug references the owning collection
	CollectionSlug string `gorm:"column:collection_slug;not null;type:text"`
	// TokenID is the token number within the collection contract
	TokenID int64 `gorm:"column:token_id;not null"`
	// UpdateType is the kind of event
	UpdateType ListingUpdateType `gorm:"column:update_type;not null;type:text"`
	// Price is the asking price in ETH; NULL means the token is unlisted after this event
	Price *float64 `gorm:"column:price"`
	// Timestamp is when the event occurred on the marketplace
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}
