package schema

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Collection represents the collections table - one row per ingested collection
type Collection struct {
	// Slug is the marketplace collection slug and the primary key
	Slug string `gorm:"column:slug;primaryKey;type:text"`
	// ContractAddress is the checksummed address of the primary asset contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// TotalSupply is the number of tokens in the collection at ingestion time
	TotalSupply int64 `gorm:"column:total_supply;not null"`
	// FloorPrice is the cheapest active listing in ETH, refreshed by the syncer
	FloorPrice float64 `gorm:"column:floor_price;not null;default:0"`
	// AvgTraitRarity is the mean trait count over all non-ignored traits
	AvgTraitRarity float64 `gorm:"column:avg_trait_rarity;not null;default:0"`
	// RarityMultiplier scales the average trait rarity into the cutoff
	RarityMultiplier float64 `gorm:"column:rarity_multiplier;not null;default:1"`
	// RarityCutoff is avg_trait_rarity * rarity_multiplier / total_supply
	RarityCutoff float64 `gorm:"column:rarity_cutoff;not null;default:0"`
	// IgnoredTraitTypesRarity lists trait types excluded from rarity and price computation
	IgnoredTraitTypesRarity pq.StringArray `gorm:"column:ignored_trait_types_rarity;type:text[];not null;default:'{}'"`
	// IgnoredTraitTypesOverlap lists trait types excluded from overlap combinatorics
	IgnoredTraitTypesOverlap pq.StringArray `gorm:"column:ignored_trait_types_overlap;type:text[];not null;default:'{}'"`
	// TraitHistogram is the raw marketplace histogram: trait type -> value -> count
	TraitHistogram datatypes.JSON `gorm:"column:trait_histogram;type:jsonb"`
	// CreatedAt is the timestamp when the collection was first ingested
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last snapshot swap or floor refresh
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}
