package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
)

func writeCSV(w io.Writer, result *classify.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns(result.Months)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range result.Rows {
		if err := cw.Write(record(row, result.Months)); err != nil {
			return fmt.Errorf("write csv row for sku %s: %w", row.SKUID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the per-class summary as CSV.
func WriteSummaryCSV(w io.Writer, summary []classify.ClassSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"abc_class", "total_skus", "total_units", "total_revenue"}); err != nil {
		return err
	}
	for _, s := range summary {
		if err := cw.Write(summaryRecord(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
