package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultPageSize is the maximum page size of the analytics API.
const DefaultPageSize = 1000

var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ozon_pagination_pages_fetched_total",
		Help: "Total pages fetched by the offset pager",
	})

	pageRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ozon_pagination_page_rows",
		Help:    "Rows per fetched page",
		Buckets: []float64{0, 1, 10, 100, 250, 500, 999, 1000},
	})
)

// Config holds pager configuration.
type Config struct {
	// PageSize is the limit sent with every request.
	PageSize int

	// MaxPages stops a runaway loop against a misbehaving server. Zero means no limit.
	MaxPages int

	// OnPage is called after every successful page with its index, its row
	// count and the running total. Optional.
	OnPage func(page, rows, total int)
}

// DefaultConfig returns the pager configuration matching the analytics API.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
	}
}

// PageFetcher fetches one page of items starting at offset.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, offset, limit int) ([]T, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, offset, limit int) ([]T, error) {
	return f(ctx, offset, limit)
}

// Pager walks an offset-paginated source page by page.
type Pager[T any] struct {
	fetcher PageFetcher[T]
	config  Config
}

// NewPager creates a pager. A non-positive PageSize falls back to DefaultPageSize.
func NewPager[T any](fetcher PageFetcher[T], config Config) *Pager[T] {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	return &Pager[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// ErrTooManyPages is returned when MaxPages is reached while pages are still full.
var ErrTooManyPages = errors.New("page limit reached")

// FetchAll fetches pages until one comes back short and returns all items in
// page order. Any error aborts the walk and no items are returned.
func (p *Pager[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()
	logger := logging.NewLogger("pagination")

	var all []T
	for page := 0; ; page++ {
		if p.config.MaxPages > 0 && page >= p.config.MaxPages {
			return nil, fmt.Errorf("%w: %d pages of %d rows", ErrTooManyPages, page, p.config.PageSize)
		}

		offset := page * p.config.PageSize
		items, err := p.fetcher.FetchPage(ctx, offset, p.config.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d (offset %d): %w", page, offset, err)
		}

		pagesFetchedTotal.Inc()
		pageRows.Observe(float64(len(items)))
		all = append(all, items...)

		logger.Debug().
			Int("page", page).
			Int("offset", offset).
			Int("rows", len(items)).
			Msg("Page fetched")

		if p.config.OnPage != nil {
			p.config.OnPage(page, len(items), len(all))
		}

		if len(items) < p.config.PageSize {
			logger.Info().
				Int("pages", page+1).
				Int("rows", len(all)).
				Dur("duration", time.Since(start)).
				Msg("Fetch complete")
			return all, nil
		}
	}
}
