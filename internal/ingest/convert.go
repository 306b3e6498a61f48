package ingest

import (
	"sort"

	"github.com/lib/pq"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

// tokenFromAsset converts a marketplace asset into a domain token with canonical trait ids
func tokenFromAsset(asset *opensea.Asset) (domain.Token, error) {
	id, err := asset.ID()
	if err != nil {
		return domain.Token{}, err
	}

	traits := make([]domain.TraitID, 0, len(asset.Traits))
	for _, t := range asset.Traits {
		if t.TraitType == "" {
			continue
		}
		traits = append(traits, domain.NewTraitID(t.TraitType, t.ValueString()))
	}

	return domain.Token{
		ID:        id,
		Name:      asset.Name,
		Permalink: asset.Permalink,
		ImageURL:  asset.ImageURL,
		Owner:     domain.NormalizeAddress(asset.Owner.Address),
		Traits:    domain.SortTraitIDs(traits),
	}, nil
}

// traitCounts merges the marketplace histogram with the counts observed on tokens.
// The histogram wins when both know a trait. Histogram values that only differ in case
// share a trait id, so their counts are summed.
func traitCounts(histogram map[string]map[string]int64, tokens []domain.Token) []domain.Trait {
	counts := make(map[domain.TraitID]int64)
	for _, token := range tokens {
		for _, trait := range token.Traits {
			counts[trait]++
		}
	}
	histogramCounts := make(map[domain.TraitID]int64)
	for traitType, values := range histogram {
		for value, count := range values {
			histogramCounts[domain.NewTraitID(traitType, value)] += count
		}
	}
	for id, count := range histogramCounts {
		counts[id] = count
	}

	traits := make([]domain.Trait, 0, len(counts))
	for id, count := range counts {
		traits = append(traits, domain.Trait{ID: id, Count: count})
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i].ID < traits[j].ID })
	return traits
}

func schemaTraits(slug string, traits []domain.Trait) []schema.Trait {
	rows := make([]schema.Trait, len(traits))
	for i, t := range traits {
		rows[i] = schema.Trait{
			CollectionSlug: slug,
			TraitID:        t.ID.String(),
			TraitType:      t.ID.Type(),
			TraitValue:     t.ID.Value(),
			TraitCount:     t.Count,
		}
	}
	return rows
}

func schemaToken(slug string, token domain.Token) schema.Token {
	traits := make(pq.StringArray, len(token.Traits))
	for i, t := range token.Traits {
		traits[i] = t.String()
	}

	return schema.Token{
		CollectionSlug:   slug,
		TokenID:          token.ID,
		Name:             token.Name,
		Permalink:        token.Permalink,
		ImageURL:         token.ImageURL,
		Owner:            token.Owner,
		Traits:           traits,
		OverlapCount3:    token.Overlaps[0].Count,
		OverlapIDs3:      pq.Int64Array(token.Overlaps[0].IDs),
		OverlapCount4:    token.Overlaps[1].Count,
		OverlapIDs4:      pq.Int64Array(token.Overlaps[1].IDs),
		OverlapCount5:    token.Overlaps[2].Count,
		OverlapIDs5:      pq.Int64Array(token.Overlaps[2].IDs),
		OverlapsComputed: token.OverlapsComputed,
	}
}

func schemaListing(slug string, l domain.Listing) schema.Listing {
	return schema.Listing{
		CollectionSlug: slug,
		TokenID:        l.TokenID,
		UpdateType:     schema.ListingUpdateType(l.Type),
		Price:          l.Price,
		Timestamp:      l.Timestamp,
	}
}
