package domain

// CollectionConfig is the per-collection configuration every valuation
// computation receives explicitly
type CollectionConfig struct {
	Slug            string
	ContractAddress string
	TotalSupply     int64
	// FloorPrice is the collection-wide cheapest active listing, in ETH
	FloorPrice float64
	// AvgTraitRarity is the mean trait count over all non-ignored traits
	AvgTraitRarity   float64
	RarityMultiplier float64
	// RarityCutoff separates rare traits from common ones
	RarityCutoff             float64
	IgnoredTraitTypesRarity  []string
	IgnoredTraitTypesOverlap []string
}

// RarityCutoff derives the rare/common threshold of a collection
func RarityCutoff(avgTraitRarity, multiplier float64, totalSupply int64) float64 {
	if totalSupply <= 0 {
		return 0
	}
	return avgTraitRarity * multiplier / float64(totalSupply)
}
