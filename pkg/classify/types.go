package classify

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ABC classes.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

// XYZ classes.
const (
	ClassX = "X"
	ClassY = "Y"
	ClassZ = "Z"
)

// MonthlyDemand holds the demand statistics of one SKU.
type MonthlyDemand struct {
	SKUID string

	// DemandPerMonth maps month id to delivered units; months without sales are 0.
	DemandPerMonth map[string]float64

	StdDemand   float64
	TotalDemand float64
	AvgDemand   float64
	CovDemand   float64

	// CovDefined is false when CovDemand is NaN or infinite.
	CovDefined bool
	XYZClass   string
}

// RevenueRank holds the revenue position of one SKU.
type RevenueRank struct {
	SKUID         string
	TotalUnits    float64
	TotalRevenue  decimal.Decimal
	RevenueCumsum decimal.Decimal

	// RevenueRunningPercentage is NaN when total revenue is zero.
	RevenueRunningPercentage float64
	ABCClass                 string

	// ABCRank is the dense rank of the running percentage, starting at 1.
	// Zero when the percentage is undefined.
	ABCRank int
}

// FinalRow is one SKU of the classified table: its revenue rank, its demand
// statistics, the combined class and product info.
type FinalRow struct {
	SKUID                    string
	ABCClass                 string
	ABCRank                  int
	TotalUnits               float64
	TotalRevenue             decimal.Decimal
	RevenueCumsum            decimal.Decimal
	RevenueRunningPercentage float64

	DemandPerMonth map[string]float64
	StdDemand      float64
	TotalDemand    float64
	AvgDemand      float64
	CovDemand      float64
	CovDefined     bool
	XYZClass       string

	ABCXYZClass string
	SKUName     string
	HitsViewPDP float64
}

// Result is the outcome of one classification.
type Result struct {
	// Months are the month ids of the demand matrix, ascending.
	Months []string

	// Rows has one entry per SKU, sorted by total revenue descending.
	Rows []FinalRow

	Warnings []ComputationWarning
}

// ComputationWarning reports a per-SKU value that could not be computed.
// The SKU is still classified.
type ComputationWarning struct {
	SKUID  string
	Field  string
	Value  float64
	Reason string
}

func (w ComputationWarning) String() string {
	return fmt.Sprintf("sku %s: %s = %v: %s", w.SKUID, w.Field, w.Value, w.Reason)
}

// Options tune the classification.
type Options struct {
	// ShiftedDemandColumns computes TotalDemand over all but the last month
	// and AvgDemand over all but the last two months.
	ShiftedDemandColumns bool
}
