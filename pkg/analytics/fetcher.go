package analytics

import (
	"context"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/Sternrassler/ozon-abcxyz/pkg/pagination"
	"github.com/rs/zerolog"
)

// Poster sends a JSON payload to an API method and returns the raw response
// body. *client.Client implements it.
type Poster interface {
	Post(ctx context.Context, method string, payload any) ([]byte, error)
}

// FetcherConfig holds fetcher configuration.
type FetcherConfig struct {
	// PageSize is the limit of every request. Defaults to 1000, the API maximum.
	PageSize int

	// OnPage is called after every page. Optional.
	OnPage func(page, rows, total int)
}

// Fetcher retrieves the flat month × SKU table for a date range.
type Fetcher struct {
	api    Poster
	config FetcherConfig
	logger zerolog.Logger
}

// NewFetcher creates a fetcher on top of an API client.
func NewFetcher(api Poster, config FetcherConfig) *Fetcher {
	if config.PageSize <= 0 {
		config.PageSize = pagination.DefaultPageSize
	}
	return &Fetcher{
		api:    api,
		config: config,
		logger: logging.NewLogger("analytics-fetcher"),
	}
}

// Fetch requests pages sequentially until a short page and returns the
// flattened rows. Transport and format errors abort the fetch.
func (f *Fetcher) Fetch(ctx context.Context, dateFrom, dateTo string) ([]FlatRow, error) {
	start := time.Now()
	query := NewQuery(dateFrom, dateTo)

	f.logger.Info().
		Str("date_from", dateFrom).
		Str("date_to", dateTo).
		Int("page_size", f.config.PageSize).
		Msg("Fetching analytics")

	pages := pagination.PageFetcherFunc[Record](func(ctx context.Context, offset, limit int) ([]Record, error) {
		body, err := f.api.Post(ctx, Method, query.WithPage(offset, limit))
		if err != nil {
			return nil, err
		}
		return decodePage(body, offset)
	})

	pager := pagination.NewPager[Record](pages, pagination.Config{
		PageSize: f.config.PageSize,
		OnPage:   f.config.OnPage,
	})

	records, err := pager.FetchAll(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("Analytics fetch failed")
		return nil, err
	}

	rows := Flatten(records)
	f.logger.Info().
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Analytics fetched")

	return rows, nil
}
