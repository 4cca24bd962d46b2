package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
)

func writeText(w io.Writer, result *classify.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(Columns(result.Months), "\t"))
	for _, row := range result.Rows {
		fmt.Fprintln(tw, strings.Join(record(row, result.Months), "\t"))
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "%d warning(s):\n", len(result.Warnings))
		for _, warn := range result.Warnings {
			fmt.Fprintf(tw, "  %s\n", warn)
		}
	}

	return tw.Flush()
}

// WriteSummary writes the per-class summary in the given format.
func WriteSummary(w io.Writer, format Format, summary []classify.ClassSummary) error {
	switch format {
	case FormatCSV:
		return WriteSummaryCSV(w, summary)
	case FormatJSON:
		return encodeIndented(w, summary)
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "abc_class\ttotal_skus\ttotal_units\ttotal_revenue\t")
		for _, s := range summary {
			fmt.Fprintln(tw, strings.Join(summaryRecord(s), "\t")+"\t")
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func summaryRecord(s classify.ClassSummary) []string {
	return []string{
		s.Class,
		strconv.Itoa(s.SKUs),
		formatFloat(s.TotalUnits),
		s.Revenue.StringFixed(2),
	}
}
