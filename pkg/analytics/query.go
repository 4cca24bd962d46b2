// Package analytics fetches per-SKU, per-month sales analytics from the
// seller analytics API and flattens them into rows.
package analytics

// Method is the analytics API method path.
const Method = "/v1/analytics/data"

// Dimension and metric names requested by the fetcher. Their order fixes the
// positions in every returned record.
const (
	DimensionMonth = "month"
	DimensionSKU   = "sku"

	MetricHitsViewPDP    = "hits_view_pdp"
	MetricDeliveredUnits = "delivered_units"
	MetricRevenue        = "revenue"
)

// Filter operators and sort orders understood by the API.
const (
	OpGreaterThan = "GT"
	OrderAsc      = "ASC"
)

// Filter restricts the returned rows.
type Filter struct {
	Key   string `json:"key"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// Sort orders the returned rows.
type Sort struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}

// Query is the request body of the analytics method.
type Query struct {
	DateFrom  string   `json:"date_from"`
	DateTo    string   `json:"date_to"`
	Dimension []string `json:"dimension"`
	Filters   []Filter `json:"filters"`
	Limit     int      `json:"limit"`
	Metrics   []string `json:"metrics"`
	Offset    int      `json:"offset"`
	Sort      []Sort   `json:"sort"`
}

// NewQuery builds the month × SKU query for an inclusive date range
// (YYYY-MM-DD), keeping only rows with at least one product page view.
func NewQuery(dateFrom, dateTo string) Query {
	return Query{
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Dimension: []string{DimensionMonth, DimensionSKU},
		Filters: []Filter{
			{Key: MetricHitsViewPDP, Op: OpGreaterThan, Value: "0"},
		},
		Metrics: []string{MetricHitsViewPDP, MetricDeliveredUnits, MetricRevenue},
		Sort: []Sort{
			{Key: DimensionMonth, Order: OrderAsc},
		},
	}
}

// WithPage returns a copy of q for the page at offset.
func (q Query) WithPage(offset, limit int) Query {
	q.Offset = offset
	q.Limit = limit
	return q
}
