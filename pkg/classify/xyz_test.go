package classify

import (
	"math"
	"testing"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
)

func row(month, sku string, units, revenue float64) analytics.FlatRow {
	return analytics.FlatRow{
		MonthID:        month,
		MonthName:      month,
		SKUID:          sku,
		SKUName:        "Product " + sku,
		HitsViewPDP:    10,
		DeliveredUnits: units,
		Revenue:        revenue,
	}
}

func TestXYZClassFor(t *testing.T) {
	tests := []struct {
		cov  float64
		want string
	}{
		{0, ClassX},
		{0.5, ClassX},
		{1.0, ClassX},
		{1.0001, ClassY},
		{1.5, ClassY},
		{1.5001, ClassZ},
		{7, ClassZ},
		{math.NaN(), ClassZ},
		{math.Inf(1), ClassZ},
		{math.Inf(-1), ClassZ},
	}

	for _, tt := range tests {
		if got := XYZClassFor(tt.cov); got != tt.want {
			t.Errorf("XYZClassFor(%v) = %s, want %s", tt.cov, got, tt.want)
		}
	}
}

func TestComputeDemand_FillsMissingMonths(t *testing.T) {
	rows := []analytics.FlatRow{
		row("2024-02", "1", 4, 0),
		row("2024-01", "1", 2, 0),
		row("2024-03", "2", 9, 0),
	}

	demand, months := computeDemand(rows, Options{})

	wantMonths := []string{"2024-01", "2024-02", "2024-03"}
	if len(months) != len(wantMonths) {
		t.Fatalf("months = %v, want %v", months, wantMonths)
	}
	for i := range wantMonths {
		if months[i] != wantMonths[i] {
			t.Errorf("months[%d] = %s, want %s", i, months[i], wantMonths[i])
		}
	}

	if len(demand) != 2 {
		t.Fatalf("demand rows = %d, want 2", len(demand))
	}
	sku2 := demand[1]
	if sku2.SKUID != "2" || sku2.DemandPerMonth["2024-01"] != 0 || sku2.DemandPerMonth["2024-03"] != 9 {
		t.Errorf("sku 2 demand = %+v", sku2.DemandPerMonth)
	}
}

func TestComputeDemand_Statistics(t *testing.T) {
	// units 2, 4, 6: mean 4, sample std 2
	rows := []analytics.FlatRow{
		row("2024-01", "1", 2, 0),
		row("2024-02", "1", 4, 0),
		row("2024-03", "1", 6, 0),
	}

	tests := []struct {
		name      string
		opts      Options
		wantTotal float64
		wantAvg   float64
	}{
		{"all months", Options{}, 12, 4},
		{"shifted columns", Options{ShiftedDemandColumns: true}, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demand, _ := computeDemand(rows, tt.opts)
			d := demand[0]

			if math.Abs(d.StdDemand-2) > 1e-9 {
				t.Errorf("StdDemand = %v, want 2", d.StdDemand)
			}
			if d.TotalDemand != tt.wantTotal {
				t.Errorf("TotalDemand = %v, want %v", d.TotalDemand, tt.wantTotal)
			}
			if d.AvgDemand != tt.wantAvg {
				t.Errorf("AvgDemand = %v, want %v", d.AvgDemand, tt.wantAvg)
			}
			if math.Abs(d.CovDemand-2/tt.wantAvg) > 1e-9 {
				t.Errorf("CovDemand = %v, want %v", d.CovDemand, 2/tt.wantAvg)
			}
			if !d.CovDefined {
				t.Error("CovDefined = false, want true")
			}
		})
	}
}

func TestComputeDemand_SumsDuplicateMonthRows(t *testing.T) {
	rows := []analytics.FlatRow{
		row("2024-01", "1", 2, 0),
		row("2024-01", "1", 3, 0),
		row("2024-02", "1", 5, 0),
	}

	demand, _ := computeDemand(rows, Options{})
	if got := demand[0].DemandPerMonth["2024-01"]; got != 5 {
		t.Errorf("2024-01 units = %v, want 5", got)
	}
	if demand[0].StdDemand != 0 || demand[0].XYZClass != ClassX {
		t.Errorf("constant demand: std = %v class = %s, want 0 and X", demand[0].StdDemand, demand[0].XYZClass)
	}
}

func TestComputeDemand_NonFiniteCov(t *testing.T) {
	tests := []struct {
		name string
		rows []analytics.FlatRow
	}{
		{
			name: "zero demand",
			rows: []analytics.FlatRow{row("2024-01", "1", 0, 5), row("2024-02", "1", 0, 5)},
		},
		{
			name: "single month",
			rows: []analytics.FlatRow{row("2024-01", "1", 3, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demand, _ := computeDemand(tt.rows, Options{})
			d := demand[0]

			if d.CovDefined {
				t.Errorf("CovDefined = true for cov %v", d.CovDemand)
			}
			if d.XYZClass != ClassZ {
				t.Errorf("XYZClass = %s, want Z", d.XYZClass)
			}
		})
	}
}

func TestSampleStd(t *testing.T) {
	if !math.IsNaN(sampleStd([]float64{1})) {
		t.Error("std of one value should be NaN")
	}
	got := sampleStd([]float64{10, 0, 0, 0})
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("sampleStd = %v, want 5", got)
	}
	if !math.IsNaN(mean(nil)) {
		t.Error("mean of no values should be NaN")
	}
}
