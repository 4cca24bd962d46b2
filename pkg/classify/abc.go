package classify

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	eighty  = decimal.NewFromInt(80)
	ninety  = decimal.NewFromInt(90)
)

// ABCClassFor classifies a running revenue percentage.
func ABCClassFor(pct decimal.Decimal) string {
	switch {
	case pct.IsPositive() && pct.LessThanOrEqual(eighty):
		return ClassA
	case pct.GreaterThan(eighty) && pct.LessThanOrEqual(ninety):
		return ClassB
	default:
		return ClassC
	}
}

// computeRevenue aggregates units and revenue per SKU, sorts by revenue
// descending (SKU id ascending on ties) and assigns ABC classes and ranks.
func computeRevenue(rows []analytics.FlatRow) ([]RevenueRank, error) {
	index := make(map[string]int)
	var ranks []RevenueRank

	for _, r := range rows {
		if math.IsNaN(r.Revenue) || math.IsInf(r.Revenue, 0) {
			return nil, fmt.Errorf("sku %s month %s: revenue is not a finite number", r.SKUID, r.MonthID)
		}
		i, ok := index[r.SKUID]
		if !ok {
			i = len(ranks)
			index[r.SKUID] = i
			ranks = append(ranks, RevenueRank{SKUID: r.SKUID, TotalRevenue: decimal.Zero})
		}
		ranks[i].TotalUnits += r.DeliveredUnits
		ranks[i].TotalRevenue = ranks[i].TotalRevenue.Add(decimal.NewFromFloat(r.Revenue))
	}

	slices.SortStableFunc(ranks, func(a, b RevenueRank) int {
		if c := b.TotalRevenue.Cmp(a.TotalRevenue); c != 0 {
			return c
		}
		return strings.Compare(a.SKUID, b.SKUID)
	})

	total := decimal.Zero
	for _, r := range ranks {
		total = total.Add(r.TotalRevenue)
	}
	total = total.Round(2)

	pcts := make([]decimal.Decimal, len(ranks))
	cumsum := decimal.Zero
	for i := range ranks {
		cumsum = cumsum.Add(ranks[i].TotalRevenue)
		ranks[i].RevenueCumsum = cumsum

		if total.IsZero() {
			ranks[i].RevenueRunningPercentage = math.NaN()
			ranks[i].ABCClass = ClassC
			continue
		}
		pcts[i] = cumsum.Mul(hundred).Div(total)
		ranks[i].RevenueRunningPercentage = pcts[i].InexactFloat64()
		ranks[i].ABCClass = ABCClassFor(pcts[i])
	}

	if !total.IsZero() {
		for i, rank := range denseRanks(pcts) {
			ranks[i].ABCRank = rank
		}
	}
	return ranks, nil
}

// denseRanks ranks values ascending; equal values share a rank and ranks have no gaps.
func denseRanks(values []decimal.Decimal) []int {
	distinct := slices.Clone(values)
	slices.SortFunc(distinct, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	distinct = slices.CompactFunc(distinct, func(a, b decimal.Decimal) bool { return a.Equal(b) })

	out := make([]int, len(values))
	for i, v := range values {
		pos, _ := slices.BinarySearchFunc(distinct, v, func(e, t decimal.Decimal) int { return e.Cmp(t) })
		out[i] = pos + 1
	}
	return out
}
