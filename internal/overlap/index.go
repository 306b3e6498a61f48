package overlap

import (
	"slices"
	"strings"

	"github.com/feral-file/nft-valuation/internal/domain"
)

// Index maps every trait to the sorted ids of the tokens holding it.
// It is immutable after construction and safe for concurrent reads.
type Index struct {
	postings map[domain.TraitID][]int64
}

// NewIndex builds the trait posting lists of the given tokens, skipping ignored trait types
func NewIndex(tokens []domain.Token, ignoredTypes []string) *Index {
	postings := make(map[domain.TraitID][]int64)
	for _, token := range tokens {
		for _, trait := range normalizedTraits(token.Traits, ignoredTypes) {
			postings[trait] = append(postings[trait], token.ID)
		}
	}

	for trait, ids := range postings {
		slices.Sort(ids)
		postings[trait] = slices.Compact(ids)
	}

	return &Index{postings: postings}
}

// Holders returns the sorted ids of the tokens holding every given trait
func (ix *Index) Holders(traits []domain.TraitID) []int64 {
	if len(traits) == 0 {
		return nil
	}

	lists := make([][]int64, len(traits))
	for i, trait := range traits {
		ids, ok := ix.postings[trait]
		if !ok {
			return nil
		}
		lists[i] = ids
	}

	// intersect starting from the shortest list
	slices.SortFunc(lists, func(a, b []int64) int { return len(a) - len(b) })
	result := lists[0]
	for _, list := range lists[1:] {
		result = intersect(result, list)
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

func intersect(a, b []int64) []int64 {
	out := make([]int64, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// normalizedTraits returns the sorted, deduplicated traits that take part in overlaps
func normalizedTraits(traits []domain.TraitID, ignoredTypes []string) []domain.TraitID {
	return domain.SortTraitIDs(domain.FilterTraits(traits, ignoredTypes))
}

func comboKey(traits []domain.TraitID) string {
	parts := make([]string, len(traits))
	for i, t := range traits {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\x00")
}
