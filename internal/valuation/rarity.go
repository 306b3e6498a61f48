package valuation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// RankedTrait is a trait of a token together with its rarity fraction
type RankedTrait struct {
	ID     domain.TraitID `json:"trait"`
	Count  int64          `json:"trait_count"`
	Rarity float64        `json:"rarity"`
}

// RankTraits computes count/total_supply for every non-ignored trait and
// orders the result rarest first. Equal rarities are ordered by trait id.
func RankTraits(traits []domain.Trait, totalSupply int64, ignoredTypes []string) []RankedTrait {
	if totalSupply <= 0 || len(traits) == 0 {
		return []RankedTrait{}
	}

	ids := make([]domain.TraitID, len(traits))
	counts := make(map[domain.TraitID]int64, len(traits))
	for i, t := range traits {
		ids[i] = t.ID
		counts[t.ID] = t.Count
	}
	ids = domain.FilterTraits(ids, ignoredTypes)

	ranked := make([]RankedTrait, 0, len(ids))
	seen := make(map[domain.TraitID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ranked = append(ranked, RankedTrait{
			ID:     id,
			Count:  counts[id],
			Rarity: float64(counts[id]) / float64(totalSupply),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rarity != ranked[j].Rarity {
			return ranked[i].Rarity < ranked[j].Rarity
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// AvgTraitRarity is the mean trait count over the given traits; zero when empty
func AvgTraitRarity(traits []domain.Trait) float64 {
	if len(traits) == 0 {
		return 0
	}
	counts := make([]float64, len(traits))
	for i, t := range traits {
		counts[i] = float64(t.Count)
	}
	return stat.Mean(counts, nil)
}

func traitsFromSchema(rows []schema.Trait) []domain.Trait {
	traits := make([]domain.Trait, len(rows))
	for i, r := range rows {
		traits[i] = domain.Trait{ID: domain.TraitID(r.TraitID), Count: r.TraitCount}
	}
	return traits
}

// UniqueTraits counts the traits held by exactly one token
func UniqueTraits(ranked []RankedTrait) int {
	n := 0
	for _, t := range ranked {
		if t.Count == 1 {
			n++
		}
	}
	return n
}
