// Package pipeline runs one ABC/XYZ report: fetch the analytics table for a
// date range, classify it and summarize it. Every run builds its own API
// client from the configuration it is given.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
	"github.com/Sternrassler/ozon-abcxyz/pkg/client"
	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DateLayout is the layout of date_from and date_to.
const DateLayout = time.DateOnly

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ozon_report_runs_total",
		Help: "Total report runs by result (success or the failed stage)",
	}, []string{"result"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ozon_report_run_duration_seconds",
		Help:    "Report run duration in seconds",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	})

	skusClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ozon_report_skus_classified_total",
		Help: "Total SKUs classified by combined ABC/XYZ class",
	}, []string{"class"})

	computationWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ozon_report_computation_warnings_total",
		Help: "Total SKUs whose coefficient of variation was undefined",
	})
)

// Config holds everything a run needs.
type Config struct {
	Client   client.Config
	PageSize int
	Classify classify.Options

	// OnPage is called after every fetched page. Optional.
	OnPage func(page, rows, total int)
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string                  `json:"run_id"`
	DateFrom  string                  `json:"date_from"`
	DateTo    string                  `json:"date_to"`
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration"`
	FlatRows  int                     `json:"flat_rows"`
	Report    *classify.Result        `json:"-"`
	Summary   []classify.ClassSummary `json:"summary"`
}

// Run executes one report for the inclusive date range [dateFrom, dateTo].
// Any failure is returned as *StageError; no partial result is returned.
func Run(ctx context.Context, cfg Config, dateFrom, dateTo string) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := logging.NewLogger("pipeline").With().Str("run_id", runID).Logger()

	fail := func(stage string, err error) (*Result, error) {
		runsTotal.WithLabelValues(stage).Inc()
		logger.Error().Err(err).Str("stage", stage).Msg("Report run failed")
		return nil, &StageError{RunID: runID, Stage: stage, Err: err}
	}

	if err := ValidateRange(dateFrom, dateTo); err != nil {
		return fail(StageValidate, err)
	}

	logger.Info().Str("date_from", dateFrom).Str("date_to", dateTo).Msg("Report run started")

	api, err := client.New(cfg.Client)
	if err != nil {
		return fail(StageFetch, err)
	}
	fetcher := analytics.NewFetcher(api, analytics.FetcherConfig{
		PageSize: cfg.PageSize,
		OnPage:   cfg.OnPage,
	})

	rows, err := fetcher.Fetch(ctx, dateFrom, dateTo)
	if err != nil {
		return fail(StageFetch, err)
	}

	report, err := classify.New(cfg.Classify).Classify(rows)
	if err != nil {
		return fail(StageClassify, err)
	}

	for _, r := range report.Rows {
		skusClassified.WithLabelValues(r.ABCXYZClass).Inc()
	}
	computationWarnings.Add(float64(len(report.Warnings)))

	result := &Result{
		RunID:     runID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		StartedAt: start,
		Duration:  time.Since(start),
		FlatRows:  len(rows),
		Report:    report,
		Summary:   classify.Summarize(report.Rows),
	}

	runsTotal.WithLabelValues("success").Inc()
	runDuration.Observe(result.Duration.Seconds())
	logger.Info().
		Int("rows", result.FlatRows).
		Int("skus", len(report.Rows)).
		Int("warnings", len(report.Warnings)).
		Dur("duration", result.Duration).
		Msg("Report run complete")

	return result, nil
}

// ErrInvalidRange is returned for malformed or reversed date ranges.
var ErrInvalidRange = errors.New("invalid date range")

// ValidateRange checks that both dates are YYYY-MM-DD and from is not after to.
func ValidateRange(dateFrom, dateTo string) error {
	from, err := time.Parse(DateLayout, dateFrom)
	if err != nil {
		return fmt.Errorf("%w: date_from %q: %v", ErrInvalidRange, dateFrom, err)
	}
	to, err := time.Parse(DateLayout, dateTo)
	if err != nil {
		return fmt.Errorf("%w: date_to %q: %v", ErrInvalidRange, dateTo, err)
	}
	if from.After(to) {
		return fmt.Errorf("%w: date_from %s is after date_to %s", ErrInvalidRange, dateFrom, dateTo)
	}
	return nil
}

// Runner runs reports with a fixed configuration.
type Runner struct {
	Config Config
}

// Run executes one report with the runner's configuration.
func (r *Runner) Run(ctx context.Context, dateFrom, dateTo string) (*Result, error) {
	return Run(ctx, r.Config, dateFrom, dateTo)
}
