package classify

import (
	"slices"

	"github.com/shopspring/decimal"
)

// ClassSummary aggregates the SKUs of one ABC class.
type ClassSummary struct {
	Class      string          `json:"abc_class"`
	SKUs       int             `json:"total_skus"`
	TotalUnits float64         `json:"total_units"`
	Revenue    decimal.Decimal `json:"total_revenue"`
}

// Summarize groups rows by ABC class. Classes are returned in A, B, C order;
// classes without SKUs are omitted. Revenue is rounded to two decimals.
func Summarize(rows []FinalRow) []ClassSummary {
	byClass := make(map[string]*ClassSummary)
	for _, r := range rows {
		s, ok := byClass[r.ABCClass]
		if !ok {
			s = &ClassSummary{Class: r.ABCClass, Revenue: decimal.Zero}
			byClass[r.ABCClass] = s
		}
		s.SKUs++
		s.TotalUnits += r.TotalUnits
		s.Revenue = s.Revenue.Add(r.TotalRevenue)
	}

	out := make([]ClassSummary, 0, len(byClass))
	for _, s := range byClass {
		s.Revenue = s.Revenue.Round(2)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b ClassSummary) int {
		switch {
		case a.Class < b.Class:
			return -1
		case a.Class > b.Class:
			return 1
		}
		return 0
	})
	return out
}
