// Package export writes the classified SKU table as CSV, JSON or an aligned
// text table.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (want text, json or csv)", s)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Columns returns the table header for the given month columns.
func Columns(months []string) []string {
	cols := []string{"sku_id", "abc_class", "abc_rank", "total_revenue"}
	cols = append(cols, months...)
	return append(cols,
		"std_demand", "total_demand", "avg_demand", "cov_demand",
		"xyz_class", "abc_xyz_class", "sku_name", "hits_view_pdp",
	)
}

// Write writes the table of result in the given format.
func Write(w io.Writer, format Format, result *classify.Result) error {
	switch format {
	case FormatText:
		return writeText(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// record renders one row as cells in Columns order.
func record(row classify.FinalRow, months []string) []string {
	cells := []string{
		row.SKUID,
		row.ABCClass,
		formatRank(row.ABCRank),
		row.TotalRevenue.String(),
	}
	for _, m := range months {
		if row.DemandPerMonth == nil {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, formatFloat(row.DemandPerMonth[m]))
	}
	return append(cells,
		formatFloat(row.StdDemand),
		formatFloat(row.TotalDemand),
		formatFloat(row.AvgDemand),
		formatFloat(row.CovDemand),
		row.XYZClass,
		row.ABCXYZClass,
		row.SKUName,
		formatFloat(row.HitsViewPDP),
	)
}

// formatFloat prints the shortest exact representation; NaN and infinities are empty.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRank(rank int) string {
	if rank == 0 {
		return ""
	}
	return strconv.Itoa(rank)
}
