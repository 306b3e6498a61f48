package schema

import "time"

// Sale represents the sales table - an append-only log of completed ETH sales
type Sale struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionSlug references the owning collection
	CollectionSlug string `gorm:"column:collection_slug;not null;type:text"`
	// TokenID is the token number within the collection contract
	TokenID int64 `gorm:"column:token_id;not null"`
	// Price is the sale price in ETH
	Price float64 `gorm:"column:price;not null"`
	// Timestamp is when the sale settled
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

// TableName specifies the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}
