package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/nft-valuation/internal/domain"
)

func TestTraitCounts(t *testing.T) {
	tokens := []domain.Token{
		{ID: 1, Traits: []domain.TraitID{"background:blue", "hat:crown"}},
		{ID: 2, Traits: []domain.TraitID{"background:blue", "eyes:laser"}},
		{ID: 3, Traits: []domain.TraitID{"background:blue"}},
	}
	histogram := map[string]map[string]int64{
		"Background": {"Blue": 2, "blue": 1, "Red": 4},
		"Hat":        {"Crown": 7},
	}

	traits := traitCounts(histogram, tokens)

	assert.Equal(t, []domain.Trait{
		{ID: "background:blue", Count: 3},
		{ID: "background:red", Count: 4},
		{ID: "eyes:laser", Count: 1},
		{ID: "hat:crown", Count: 7},
	}, traits)
}

func TestTraitCounts_CaseVariantsAreStable(t *testing.T) {
	histogram := map[string]map[string]int64{
		"Fur": {"Gold": 5, "GOLD": 2, "gold": 1},
	}

	for range 20 {
		assert.Equal(t, []domain.Trait{{ID: "fur:gold", Count: 8}}, traitCounts(histogram, nil))
	}
}
