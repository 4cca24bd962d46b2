package classify

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/rs/zerolog"
)

// Classifier builds the classified SKU table from flat analytics rows.
type Classifier struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a classifier.
func New(opts Options) *Classifier {
	return &Classifier{
		opts:   opts,
		logger: logging.NewLogger("classifier"),
	}
}

// Classify computes ABC and XYZ classes for every SKU in rows. Non-finite
// per-SKU statistics are reported as warnings; an error is returned only for
// input that cannot be aggregated.
func (c *Classifier) Classify(rows []analytics.FlatRow) (*Result, error) {
	start := time.Now()

	revenue, err := computeRevenue(rows)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}
	demand, months := computeDemand(rows, c.opts)

	demandBySKU := make(map[string]MonthlyDemand, len(demand))
	for _, d := range demand {
		demandBySKU[d.SKUID] = d
	}
	names, hits := productInfo(rows)

	result := &Result{
		Months: months,
		Rows:   make([]FinalRow, 0, len(revenue)),
	}

	for _, r := range revenue {
		row := FinalRow{
			SKUID:                    r.SKUID,
			ABCClass:                 r.ABCClass,
			ABCRank:                  r.ABCRank,
			TotalUnits:               r.TotalUnits,
			TotalRevenue:             r.TotalRevenue,
			RevenueCumsum:            r.RevenueCumsum,
			RevenueRunningPercentage: r.RevenueRunningPercentage,
			SKUName:                  names[r.SKUID],
			HitsViewPDP:              hits[r.SKUID],
		}

		d, ok := demandBySKU[r.SKUID]
		if !ok {
			// no demand row: XYZ side of the join stays empty
			row.StdDemand, row.TotalDemand, row.AvgDemand, row.CovDemand = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			row.ABCXYZClass = r.ABCClass
			result.Rows = append(result.Rows, row)
			continue
		}

		row.DemandPerMonth = d.DemandPerMonth
		row.StdDemand = d.StdDemand
		row.TotalDemand = d.TotalDemand
		row.AvgDemand = d.AvgDemand
		row.CovDemand = d.CovDemand
		row.CovDefined = d.CovDefined
		row.XYZClass = d.XYZClass
		row.ABCXYZClass = r.ABCClass + d.XYZClass

		if !d.CovDefined {
			w := ComputationWarning{
				SKUID:  r.SKUID,
				Field:  "cov_demand",
				Value:  d.CovDemand,
				Reason: covReason(d),
			}
			result.Warnings = append(result.Warnings, w)
			c.logger.Warn().
				Str("sku_id", w.SKUID).
				Str("reason", w.Reason).
				Msg("Coefficient of variation undefined, classified as Z")
		}
		result.Rows = append(result.Rows, row)
	}

	c.logger.Info().
		Int("skus", len(result.Rows)).
		Int("months", len(months)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("Classification complete")

	return result, nil
}

// Classify runs a classifier with default options.
func Classify(rows []analytics.FlatRow) (*Result, error) {
	return New(Options{}).Classify(rows)
}

func covReason(d MonthlyDemand) string {
	switch {
	case math.IsNaN(d.StdDemand):
		return "fewer than two months of data"
	case math.IsNaN(d.AvgDemand):
		return "no months to average"
	case d.AvgDemand == 0:
		return "zero average demand"
	default:
		return "not a finite number"
	}
}

// productInfo returns the first-seen name and the summed page views per SKU.
func productInfo(rows []analytics.FlatRow) (map[string]string, map[string]float64) {
	names := make(map[string]string)
	hits := make(map[string]float64)
	for _, r := range rows {
		if _, ok := names[r.SKUID]; !ok {
			names[r.SKUID] = r.SKUName
		}
		hits[r.SKUID] += r.HitsViewPDP
	}
	return names, hits
}

// Find returns the row of a SKU.
func (r *Result) Find(skuID string) (FinalRow, bool) {
	i := slices.IndexFunc(r.Rows, func(row FinalRow) bool { return row.SKUID == skuID })
	if i < 0 {
		return FinalRow{}, false
	}
	return r.Rows[i], true
}
