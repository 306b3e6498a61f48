package valuation

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/feral-file/nft-valuation/internal/domain"
)

// liquidityProfile gathers listing and sale activity of the token's traits. maxPrice is the
// upper bound of the token's price envelope.
func (e *Engine) liquidityProfile(ctx context.Context, a *tokenAnalysis, maxPrice float64) (*LiquidityProfile, error) {
	slug := a.collection.Slug
	profile := &LiquidityProfile{
		SaleWindowDays:      e.cfg.SaleWindowDays,
		FrequencyWindowDays: e.cfg.FrequencyWindowDays,
	}

	saleCounts := make([]int, len(a.ranked))
	frequencies := make([]*float64, len(a.ranked))
	tasks := make([]task, 0, 2*len(a.ranked)+3)
	for i, trait := range a.ranked {
		tasks = append(tasks,
			func(ctx context.Context) (err error) {
				saleCounts[i], err = e.sales.TraitSaleCount(ctx, slug, trait.ID, e.cfg.SaleWindowDays)
				return err
			},
			func(ctx context.Context) (err error) {
				frequencies[i], err = e.sales.TraitFrequency(ctx, slug, trait.ID, e.cfg.FrequencyWindowDays)
				return err
			},
		)
	}

	if rarest := a.rarest(); rarest != nil {
		tasks = append(tasks, func(ctx context.Context) (err error) {
			profile.RarestTraitNrListed, err = e.listedRatio(ctx, a.collection, rarest.Trait)
			return err
		})
	}
	if a.mvt != nil {
		tasks = append(tasks, func(ctx context.Context) (err error) {
			profile.MVTNrListed, err = e.listedRatio(ctx, a.collection, a.mvt.Trait)
			return err
		})
	}
	tasks = append(tasks, func(ctx context.Context) error {
		since := e.sales.windowStart(e.cfg.SaleWindowDays)
		count, err := e.store.CountSalesAbove(ctx, slug, maxPrice, since)
		if err != nil {
			return fmt.Errorf("failed to count sales above max price: %w", err)
		}
		profile.NrSalesAboveMaxPrice = int(count)
		return nil
	})

	if err := fanOut(ctx, e.cfg.QueryConcurrency, tasks...); err != nil {
		return nil, err
	}

	if len(a.ranked) > 0 {
		profile.RarestTraitSaleCount = &saleCounts[0]
		profile.RarestTraitFrequency = frequencies[0]

		lowest := slices.Min(saleCounts)
		profile.LowestTraitSaleCount = &lowest

		counts := make([]float64, len(saleCounts))
		for i, c := range saleCounts {
			counts[i] = float64(c)
		}
		profile.AvgTraitSaleCount = domain.Float(stat.Mean(counts, nil))
	}
	if a.mvt != nil {
		if i := slices.IndexFunc(a.ranked, func(t RankedTrait) bool { return t.ID == a.mvt.Trait.ID }); i >= 0 {
			profile.MVTSaleCount = &saleCounts[i]
			profile.MostValuedTraitFrequency = frequencies[i]
		}
	}
	profile.LowestTraitFrequency = LowestFrequency(frequencies)
	profile.AvgTraitFrequency = AverageFrequency(frequencies)

	return profile, nil
}

func (e *Engine) listedRatio(ctx context.Context, collection domain.CollectionConfig, trait RankedTrait) (*ListedRatio, error) {
	listed, err := e.resolver.CountListed(ctx, collection, trait.ID)
	if err != nil {
		return nil, err
	}
	return &ListedRatio{Listed: listed, Total: trait.Count}, nil
}
