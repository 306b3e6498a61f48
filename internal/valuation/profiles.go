package valuation

import (
	"github.com/feral-file/nft-valuation/internal/domain"
)

// ListedRatio is the number of currently listed tokens holding a trait out of all its holders
type ListedRatio struct {
	Listed int64 `json:"listed"`
	Total  int64 `json:"total"`
}

// LiquidityProfile summarizes how easily a token's traits trade
type LiquidityProfile struct {
	SaleWindowDays           int          `json:"sale_window_days"`
	FrequencyWindowDays      int          `json:"frequency_window_days"`
	RarestTraitNrListed      *ListedRatio `json:"rarest_trait_nr_listed"`
	MVTNrListed              *ListedRatio `json:"mvt_nr_listed"`
	RarestTraitSaleCount     *int         `json:"rarest_trait_sale_count"`
	MVTSaleCount             *int         `json:"mvt_sale_count"`
	LowestTraitSaleCount     *int         `json:"lowest_trait_sale_count"`
	AvgTraitSaleCount        *float64     `json:"avg_trait_sale_count"`
	NrSalesAboveMaxPrice     int          `json:"nr_sales_above_max_price"`
	LowestTraitFrequency     *float64     `json:"lowest_trait_frequency"`
	AvgTraitFrequency        *float64     `json:"avg_trait_frequency"`
	RarestTraitFrequency     *float64     `json:"rarest_trait_frequency"`
	MostValuedTraitFrequency *float64     `json:"most_valued_trait_frequency"`
}

// RarityProfile describes where a token sits in its collection's trait distribution
type RarityProfile struct {
	RarestTrait     *domain.TraitID  `json:"rarest_trait"`
	MostValuedTrait *domain.TraitID  `json:"most_valued_trait"`
	Traits          []RankedTrait    `json:"traits"`
	UniqueTraits    int              `json:"unique_traits"`
	Overlaps        []OverlapSummary `json:"overlaps"`
	// OverlapsComputed is false when the preprocessor did not finish this token
	OverlapsComputed bool `json:"overlaps_computed"`
}

// OverlapSummary is the overlap of one combination size
type OverlapSummary struct {
	Size  int     `json:"size"`
	Count int     `json:"count"`
	IDs   []int64 `json:"ids"`
}

// CollectionProfile summarizes a collection's market state
type CollectionProfile struct {
	Slug                   string   `json:"slug"`
	ContractAddress        string   `json:"contract_address"`
	FloorPrice             float64  `json:"floor_price"`
	TotalSupply            int64    `json:"total_supply"`
	AvgTraitRarity         float64  `json:"avg_trait_rarity"`
	RarityCutoff           float64  `json:"rarity_cutoff"`
	NrListedNow            int64    `json:"nr_listed_now"`
	NrNewListings14d       int64    `json:"nr_new_listings_14d"`
	NrCancelledListings14d int64    `json:"nr_cancelled_listings_14d"`
	NrSales14d             int      `json:"nr_sales_14d"`
	DailyAvgPrice          *float64 `json:"daily_avg_price"`
	WeeklyAvgPrice         *float64 `json:"weekly_avg_price"`
	MonthlyAvgPrice        *float64 `json:"monthly_avg_price"`
}

// CollectionSummary is a collection entry of the collection listing
type CollectionSummary struct {
	Slug            string  `json:"slug"`
	ContractAddress string  `json:"contract_address"`
	TotalSupply     int64   `json:"total_supply"`
	FloorPrice      float64 `json:"floor_price"`
}

// TokenProfile is the complete profile of a token
type TokenProfile struct {
	Slug                    string            `json:"collection_slug"`
	TokenID                 int64             `json:"token_id"`
	Name                    string            `json:"name"`
	Permalink               string            `json:"permalink"`
	ImageURL                string            `json:"image_url"`
	Owner                   string            `json:"owner"`
	ListingPrice            *float64          `json:"listing_price"`
	NrListings30d           int               `json:"nr_listings_30d"`
	OwnerTokensInCollection int64             `json:"owner_tokens_in_collection"`
	Collection              CollectionProfile `json:"collection_profile"`
	Price                   PriceProfile      `json:"price_profile"`
	Liquidity               LiquidityProfile  `json:"liquidity_profile"`
	Rarity                  RarityProfile     `json:"rarity_profile"`
}
