package schema

// Trait represents the traits table - one row per distinct (type, value) in a collection
type Trait struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionSlug references the owning collection
	CollectionSlug string `gorm:"column:collection_slug;not null;type:text;uniqueIndex:idx_traits_collection_trait,priority:1"`
	// TraitID is the canonical "type:value" identifier, lowercased
	TraitID string `gorm:"column:trait_id;not null;type:text;uniqueIndex:idx_traits_collection_trait,priority:2"`
	// TraitType is the lowercased trait type
	TraitType string `gorm:"column:trait_type;not null;type:text"`
	// TraitValue is the lowercased trait value
	TraitValue string `gorm:"column:trait_value;not null;type:text"`
	// TraitCount is the number of tokens in the collection holding this trait
	TraitCount int64 `gorm:"column:trait_count;not null"`
}

// TableName specifies the table name for the Trait model
func (Trait) TableName() string {
	return "traits"
}
