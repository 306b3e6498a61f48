package schema

import (
	"time"

	"github.com/lib/pq"
)

// Token represents the tokens table - a collection item with its traits and overlap statistics
type Token struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionSlug references the owning collection
	CollectionSlug string `gorm:"column:collection_slug;not null;type:text;uniqueIndex:idx_tokens_collection_token,priority:1"`
	// TokenID is the token number within the collection contract
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_tokens_collection_token,priority:2"`
	// Name is the marketplace display name
	Name string `gorm:"column:name;not null;default:'';type:text"`
	// Permalink is the marketplace page of the token
	Permalink string `gorm:"column:permalink;not null;default:'';type:text"`
	// ImageURL is the preview image of the token
	ImageURL string `gorm:"column:image_url;not null;default:'';type:text"`
	// Owner is the current owner's checksummed address
	Owner string `gorm:"column:owner;not null;default:'';type:text;index"`
	// Traits holds the canonical trait ids of the token (GIN indexed)
	Traits pq.StringArray `gorm:"column:traits;type:text[];not null;default:'{}'"`
	// OverlapCount3 is the number of other tokens sharing a 3-combination of traits
	OverlapCount3 int `gorm:"column:overlap_count_3;not null;default:0"`
	// OverlapIDs3 are the other tokens sharing a 3-combination of traits
	OverlapIDs3 pq.Int64Array `gorm:"column:overlap_ids_3;type:bigint[];not null;default:'{}'"`
	// OverlapCount4 is the number of other tokens sharing a 4-combination of traits
	OverlapCount4 int `gorm:"column:overlap_count_4;not null;default:0"`
	// OverlapIDs4 are the other tokens sharing a 4-combination of traits
	OverlapIDs4 pq.Int64Array `gorm:"column:overlap_ids_4;type:bigint[];not null;default:'{}'"`
	// OverlapCount5 is the number of other tokens sharing a 5-combination of traits
	OverlapCount5 int `gorm:"column:overlap_count_5;not null;default:0"`
	// OverlapIDs5 are the other tokens sharing a 5-combination of traits
	OverlapIDs5 pq.Int64Array `gorm:"column:overlap_ids_5;type:bigint[];not null;default:'{}'"`
	// OverlapsComputed is false when the preprocessor could not finish this token
	OverlapsComputed bool `gorm:"column:overlaps_computed;not null;default:false"`
	// UpdatedAt is the timestamp of the last snapshot or owner update
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
