package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Sternrassler/ozon-abcxyz/pkg/export"
	"github.com/Sternrassler/ozon-abcxyz/pkg/pipeline"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	root     *rootOptions
	dateFrom string
	dateTo   string
	format   string
	output   string
	summary  bool
	progress bool
}

func NewReportCmd(root *rootOptions) *cobra.Command {
	rc := &ReportCmd{root: root}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch analytics for a date range and print the classified SKU table",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dateFrom, "from", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.dateTo, "to", "", "Last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.format, "format", "text", "Output format: text, json, csv")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&rc.summary, "summary", false, "Also print the per-class summary")
	cmd.Flags().BoolVar(&rc.progress, "progress", true, "Show page progress on stderr")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(rc.format)
	if err != nil {
		return err
	}
	if err := pipeline.ValidateRange(rc.dateFrom, rc.dateTo); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, rdb, _, err := rc.root.setup(ctx)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	pc := cfg.PipelineConfig(rdb)
	if rc.progress {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(rc.root.stderr),
			progressbar.OptionSetDescription("fetching pages"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		pc.OnPage = func(page, rows, total int) {
			bar.Describe(fmt.Sprintf("fetched %d rows", total))
			_ = bar.Add(1)
		}
	}

	result, err := pipeline.Run(ctx, pc, rc.dateFrom, rc.dateTo)
	if err != nil {
		return err
	}

	out, closeOut, err := rc.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	return rc.write(out, format, result)
}

func (rc *ReportCmd) write(out io.Writer, format export.Format, result *pipeline.Result) error {
	if format == export.FormatJSON {
		doc := export.NewDocument(result.Report, nil)
		if rc.summary {
			doc.Summary = result.Summary
		}
		return export.WriteDocument(out, doc)
	}

	if err := export.Write(out, format, result.Report); err != nil {
		return err
	}
	if rc.summary {
		fmt.Fprintln(out)
		return export.WriteSummary(out, format, result.Summary)
	}
	return nil
}

func (rc *ReportCmd) openOutput() (io.Writer, func(), error) {
	if rc.output == "" {
		return rc.root.stdout, func() {}, nil
	}
	f, err := os.Create(rc.output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
