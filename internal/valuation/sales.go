package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/store"
	"github.com/feral-file/nft-valuation/internal/store/schema"
)

const day = 24 * time.Hour

// SaleAnalyzer reads sale histories and derives averages and trading velocity
type SaleAnalyzer struct {
	store store.Store
	clock adapter.Clock
}

// NewSaleAnalyzer creates a sale analyzer
func NewSaleAnalyzer(st store.Store, clock adapter.Clock) *SaleAnalyzer {
	return &SaleAnalyzer{store: st, clock: clock}
}

// TokenSales returns every sale of a token, oldest first
func (a *SaleAnalyzer) TokenSales(ctx context.Context, slug string, tokenID int64) ([]domain.Sale, error) {
	rows, err := a.store.GetSalesForToken(ctx, slug, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token sales: %w", err)
	}
	return salesFromSchema(rows), nil
}

// TraitSales returns the sales of tokens holding the trait since the given time, oldest first
func (a *SaleAnalyzer) TraitSales(ctx context.Context, slug string, traitID domain.TraitID, since time.Time) ([]domain.Sale, error) {
	rows, err := a.store.GetSalesForTrait(ctx, slug, traitID.String(), since)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for trait %s: %w", traitID, err)
	}
	return salesFromSchema(rows), nil
}

// TraitSaleCount counts the sales of the trait in the trailing window
func (a *SaleAnalyzer) TraitSaleCount(ctx context.Context, slug string, traitID domain.TraitID, windowDays int) (int, error) {
	sales, err := a.TraitSales(ctx, slug, traitID, a.windowStart(windowDays))
	if err != nil {
		return 0, err
	}
	return len(sales), nil
}

// TraitFrequency is the number of days per sale of the trait in the trailing window; nil without sales
func (a *SaleAnalyzer) TraitFrequency(ctx context.Context, slug string, traitID domain.TraitID, windowDays int) (*float64, error) {
	count, err := a.TraitSaleCount(ctx, slug, traitID, windowDays)
	if err != nil {
		return nil, err
	}
	return Frequency(windowDays, count), nil
}

// LastSaleRelative rescales a sale by how much the average sale price moved since it happened:
// price / avg(before sale) * avg(now). With a trait, averages only cover holders of that trait.
// Returns nil when either average has no qualifying sale.
func (a *SaleAnalyzer) LastSaleRelative(ctx context.Context, slug string, traitID *domain.TraitID, last domain.Sale) (*float64, error) {
	var trait *string
	if traitID != nil {
		t := traitID.String()
		trait = &t
	}

	then, err := a.store.GetAvgSalePrice(ctx, slug, trait, last.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to get average sale price at sale time: %w", err)
	}
	if then == nil || *then <= 0 {
		return nil, nil
	}

	current, err := a.store.GetAvgSalePrice(ctx, slug, trait, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get current average sale price: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	return domain.Float(last.Price / *then * *current), nil
}

func (a *SaleAnalyzer) windowStart(windowDays int) time.Time {
	return a.clock.Now().Add(-time.Duration(windowDays) * day)
}

// AvgLastN averages the n most recent sale prices; nil when fewer than n sales exist
func AvgLastN(sales []domain.Sale, n int) *float64 {
	if n <= 0 || len(sales) < n {
		return nil
	}
	sorted := sortedSales(sales)
	prices := make([]float64, n)
	for i, s := range sorted[len(sorted)-n:] {
		prices[i] = s.Price
	}
	return domain.Float(stat.Mean(prices, nil))
}

// LastSale returns the most recent sale; nil without sales
func LastSale(sales []domain.Sale) *domain.Sale {
	if len(sales) == 0 {
		return nil
	}
	sorted := sortedSales(sales)
	last := sorted[len(sorted)-1]
	return &last
}

// Frequency is window_days / sale_count; nil when nothing sold in the window
func Frequency(windowDays int, count int) *float64 {
	if count <= 0 {
		return nil
	}
	return domain.Float(float64(windowDays) / float64(count))
}

// LowestFrequency returns the largest days-per-sale value, i.e. the least traded trait.
// Undefined frequencies are skipped; nil when none is defined.
func LowestFrequency(frequencies []*float64) *float64 {
	var lowest *float64
	for _, f := range frequencies {
		if f == nil {
			continue
		}
		if lowest == nil || *f > *lowest {
			lowest = domain.Float(*f)
		}
	}
	return lowest
}

// AverageFrequency is the mean of the defined frequencies; nil when none is defined
func AverageFrequency(frequencies []*float64) *float64 {
	defined := make([]float64, 0, len(frequencies))
	for _, f := range frequencies {
		if f != nil {
			defined = append(defined, *f)
		}
	}
	if len(defined) == 0 {
		return nil
	}
	return domain.Float(stat.Mean(defined, nil))
}

// AvgPriceSince averages the prices of sales at or after since; nil when none qualifies
func AvgPriceSince(sales []domain.Sale, since time.Time) *float64 {
	var prices []float64
	for _, s := range sales {
		if !s.Timestamp.Before(since) {
			prices = append(prices, s.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}
	return domain.Float(stat.Mean(prices, nil))
}

// sortedSales returns a copy ordered oldest first
func sortedSales(sales []domain.Sale) []domain.Sale {
	sorted := append([]domain.Sale(nil), sales...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

func salesFromSchema(rows []schema.Sale) []domain.Sale {
	sales := make([]domain.Sale, len(rows))
	for i, r := range rows {
		sales[i] = domain.Sale{TokenID: r.TokenID, Price: r.Price, Timestamp: r.Timestamp}
	}
	return sortedSales(sales)
}
