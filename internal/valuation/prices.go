package valuation

import (
	"slices"
	"sort"

	"github.com/feral-file/nft-valuation/internal/domain"
)

// TraitFloor pairs a ranked trait with its current floor; Floor is nil when nothing is listed
type TraitFloor struct {
	Trait RankedTrait
	Floor *float64
}

// PriceProfile is the synthesized price estimate of a token. Every signal is optional;
// only the envelope fields are always set.
type PriceProfile struct {
	RarestTrait                   *domain.TraitID `json:"rarest_trait"`
	MostValuedTrait               *domain.TraitID `json:"most_valued_trait"`
	CollectionFloor               *float64        `json:"collection_floor"`
	LastSale                      *float64        `json:"last_sale"`
	MostRareTraitFloor            *float64        `json:"most_rare_trait_floor"`
	MostValuedTraitFloor          *float64        `json:"most_valued_trait_floor"`
	RarityWeightedFloor           *float64        `json:"rarity_weighted_floor"`
	AvgLastThreeMVTSales          *float64        `json:"avg_last_three_mvt_sales"`
	LastSaleRelativeCollectionAvg *float64        `json:"last_sale_relative_collection_avg"`
	LastSaleRelativeMVTAvg        *float64        `json:"last_sale_relative_mvt_avg"`
	CustomPrice                   *float64        `json:"custom_price"`
	MaxPrice                      float64         `json:"max_price"`
	MinPrice                      float64         `json:"min_price"`
	AvgPrice                      float64         `json:"avg_price"`
}

// Clone returns a deep copy of the profile
func (p *PriceProfile) Clone() *PriceProfile {
	cp := *p
	for _, f := range []**float64{
		&cp.CollectionFloor, &cp.LastSale, &cp.MostRareTraitFloor, &cp.MostValuedTraitFloor,
		&cp.RarityWeightedFloor, &cp.AvgLastThreeMVTSales, &cp.LastSaleRelativeCollectionAvg,
		&cp.LastSaleRelativeMVTAvg, &cp.CustomPrice,
	} {
		if *f != nil {
			*f = domain.Float(**f)
		}
	}
	for _, id := range []**domain.TraitID{&cp.RarestTrait, &cp.MostValuedTrait} {
		if *id != nil {
			v := **id
			*id = &v
		}
	}
	return &cp
}

// candidates lists every signal that takes part in the envelope
func (p *PriceProfile) candidates() []*float64 {
	return []*float64{
		p.CollectionFloor,
		p.LastSale,
		p.MostRareTraitFloor,
		p.MostValuedTraitFloor,
		p.RarityWeightedFloor,
		p.AvgLastThreeMVTSales,
		p.LastSaleRelativeCollectionAvg,
		p.LastSaleRelativeMVTAvg,
	}
}

// CustomPriceProfile is the profile returned for a curated price
func CustomPriceProfile(collectionFloor float64, price float64) *PriceProfile {
	return &PriceProfile{
		CollectionFloor: domain.Positive(domain.Float(collectionFloor)),
		CustomPrice:     domain.Float(price),
		MaxPrice:        price,
		MinPrice:        price,
		AvgPrice:        price,
	}
}

// MostValuedTrait picks, among the traits rarer than the cutoff, the one with the highest floor.
// When no trait is under the cutoff every trait is a candidate. Floors must be in rarity order;
// the first one wins a tie. Returns nil when no candidate has a floor.
func MostValuedTrait(floors []TraitFloor, cutoff float64) *TraitFloor {
	candidates := make([]TraitFloor, 0, len(floors))
	for _, f := range floors {
		if f.Trait.Rarity < cutoff {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		candidates = floors
	}

	var best *TraitFloor
	for i := range candidates {
		f := candidates[i]
		if f.Floor == nil {
			continue
		}
		if best == nil || *f.Floor > *best.Floor {
			best = &f
		}
	}
	return best
}

// RarityWeightedFloor combines the floors of the traits rarer than cutoff/3.
// Sorted by floor descending, it starts from the highest floor and adds f_i / (2 * r_i / r_{i-1})
// for each following trait. Without any such trait it falls back to the rarest trait's floor.
// Floors must be in rarity order. Returns nil when no floor is available.
func RarityWeightedFloor(floors []TraitFloor, cutoff float64) *float64 {
	if len(floors) == 0 {
		return nil
	}

	var rare []TraitFloor
	for _, f := range floors {
		if f.Trait.Rarity < cutoff/3 {
			rare = append(rare, f)
		}
	}
	if len(rare) == 0 {
		return floors[0].Floor
	}

	withFloor := slices.DeleteFunc(rare, func(f TraitFloor) bool { return f.Floor == nil })
	if len(withFloor) == 0 {
		return nil
	}
	sort.SliceStable(withFloor, func(i, j int) bool {
		return *withFloor[i].Floor > *withFloor[j].Floor
	})

	total := *withFloor[0].Floor
	for i := 1; i < len(withFloor); i++ {
		prev, cur := withFloor[i-1].Trait.Rarity, withFloor[i].Trait.Rarity
		total += *withFloor[i].Floor / (2 * cur / prev)
	}
	return domain.Float(total)
}

// Envelope derives max/min/avg from the positive candidates. The minimum never goes below
// the collection floor. Without any candidate all three equal the collection floor.
func Envelope(collectionFloor float64, candidates ...*float64) (maxPrice, minPrice, avgPrice float64) {
	values := domain.PositiveValues(candidates...)
	floor := max(collectionFloor, 0)
	if len(values) == 0 {
		return floor, floor, floor
	}

	maxPrice = slices.Max(values)
	minPrice = max(slices.Min(values), floor)
	avgPrice = (maxPrice + minPrice) / 2
	return maxPrice, minPrice, avgPrice
}
