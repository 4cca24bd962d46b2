package classify

import (
	"math"
	"slices"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
)

// XYZClassFor classifies a coefficient of variation. NaN and infinities are Z.
func XYZClassFor(cov float64) string {
	switch {
	case math.IsNaN(cov) || math.IsInf(cov, 0):
		return ClassZ
	case cov <= 1:
		return ClassX
	case cov <= 1.5:
		return ClassY
	default:
		return ClassZ
	}
}

// demandMatrix sums delivered units per SKU and month.
type demandMatrix struct {
	months []string
	skus   []string
	units  map[string]map[string]float64
}

func buildDemandMatrix(rows []analytics.FlatRow) demandMatrix {
	m := demandMatrix{units: make(map[string]map[string]float64)}
	seenMonth := make(map[string]bool)

	for _, r := range rows {
		if !seenMonth[r.MonthID] {
			seenMonth[r.MonthID] = true
			m.months = append(m.months, r.MonthID)
		}
		perMonth, ok := m.units[r.SKUID]
		if !ok {
			perMonth = make(map[string]float64)
			m.units[r.SKUID] = perMonth
			m.skus = append(m.skus, r.SKUID)
		}
		perMonth[r.MonthID] += r.DeliveredUnits
	}

	slices.Sort(m.months)
	slices.Sort(m.skus)
	return m
}

// series returns the SKU's units in month order with missing months as 0.
func (m demandMatrix) series(sku string) []float64 {
	out := make([]float64, len(m.months))
	for i, month := range m.months {
		out[i] = m.units[sku][month]
	}
	return out
}

// computeDemand returns demand statistics per SKU, in SKU id order, and the
// month columns they were computed over.
func computeDemand(rows []analytics.FlatRow, opts Options) ([]MonthlyDemand, []string) {
	m := buildDemandMatrix(rows)

	out := make([]MonthlyDemand, 0, len(m.skus))
	for _, sku := range m.skus {
		values := m.series(sku)

		totalCols, avgCols := values, values
		if opts.ShiftedDemandColumns {
			totalCols = head(values, len(values)-1)
			avgCols = head(values, len(values)-2)
		}

		d := MonthlyDemand{
			SKUID:          sku,
			DemandPerMonth: make(map[string]float64, len(m.months)),
			StdDemand:      sampleStd(values),
			TotalDemand:    sum(totalCols),
			AvgDemand:      mean(avgCols),
		}
		for i, month := range m.months {
			d.DemandPerMonth[month] = values[i]
		}

		d.CovDemand = d.StdDemand / d.AvgDemand
		d.CovDefined = !math.IsNaN(d.CovDemand) && !math.IsInf(d.CovDemand, 0)
		d.XYZClass = XYZClassFor(d.CovDemand)

		out = append(out, d)
	}
	return out, m.months
}

func head(values []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	return values[:n]
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// mean is NaN for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return sum(values) / float64(len(values))
}

// sampleStd is the n-1 standard deviation; NaN for fewer than two values.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	mu := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - mu) * (v - mu)
	}
	return math.Sqrt(ss / float64(n-1))
}
