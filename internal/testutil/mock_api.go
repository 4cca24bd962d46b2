// Package testutil provides a mock seller analytics API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// AnalyticsPath is the analytics method served by the mock.
const AnalyticsPath = "/v1/analytics/data"

// MockResponse defines a canned response for one request.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// Dimension mirrors the API's {id, name} pair.
type Dimension struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record mirrors one API data record.
type Record struct {
	Dimensions []Dimension `json:"dimensions"`
	Metrics    []float64   `json:"metrics"`
}

// RequestBody is the subset of the analytics query the mock inspects.
type RequestBody struct {
	DateFrom  string   `json:"date_from"`
	DateTo    string   `json:"date_to"`
	Dimension []string `json:"dimension"`
	Metrics   []string `json:"metrics"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// MockAnalyticsAPI is a configurable mock seller API server.
type MockAnalyticsAPI struct {
	server *httptest.Server
	mu     sync.Mutex

	pages     [][]Record
	responses []MockResponse

	requestCount      int
	requests          []RequestBody
	lastRequestHeader http.Header
}

// NewMockAnalyticsAPI starts a mock server. With no pages configured every
// request returns an empty page.
func NewMockAnalyticsAPI() *MockAnalyticsAPI {
	m := &MockAnalyticsAPI{}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the mock server URL.
func (m *MockAnalyticsAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAnalyticsAPI) Close() {
	m.server.Close()
}

// SetPages configures the records returned by consecutive requests.
// Requests beyond the configured pages get an empty page.
func (m *MockAnalyticsAPI) SetPages(pages ...[]Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = pages
}

// SetPageSizes configures consecutive pages of generated records with the given sizes.
func (m *MockAnalyticsAPI) SetPageSizes(sizes ...int) {
	pages := make([][]Record, len(sizes))
	next := 0
	for i, n := range sizes {
		pages[i] = GenerateRecords(next, n)
		next += n
	}
	m.SetPages(pages...)
}

// QueueResponses makes the next requests return the given raw responses, in
// order, before falling back to the configured pages.
func (m *MockAnalyticsAPI) QueueResponses(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAnalyticsAPI) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// Requests returns the decoded bodies of all requests in arrival order.
func (m *MockAnalyticsAPI) Requests() []RequestBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RequestBody, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockAnalyticsAPI) LastRequestHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequestHeader
}

func (m *MockAnalyticsAPI) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body RequestBody
	_ = json.Unmarshal(raw, &body)

	m.mu.Lock()
	call := m.requestCount
	m.requestCount++
	m.requests = append(m.requests, body)
	m.lastRequestHeader = r.Header.Clone()

	var canned *MockResponse
	if len(m.responses) > 0 {
		canned = &m.responses[0]
		m.responses = m.responses[1:]
	}
	var page []Record
	pageIndex := call
	if canned == nil && body.Limit > 0 {
		pageIndex = body.Offset / body.Limit
	}
	if canned == nil && pageIndex < len(m.pages) {
		page = m.pages[pageIndex]
	}
	m.mu.Unlock()

	if r.Method != http.MethodPost || r.URL.Path != AnalyticsPath {
		http.Error(w, `{"code":5,"message":"not found"}`, http.StatusNotFound)
		return
	}

	if canned != nil {
		writeCanned(w, *canned)
		return
	}

	if page == nil {
		page = []Record{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"result": map[string]any{
			"data":   page,
			"totals": []float64{0, 0, 0},
		},
		"timestamp": time.Now().UTC().Format(time.DateTime),
	})
}

func writeCanned(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = w.Write([]byte(resp.Body))
	}
}

// GenerateRecords builds n records with distinct SKUs starting at index start.
// All records fall into month 2024-01 and carry metrics [1, 1, 10].
func GenerateRecords(start, n int) []Record {
	records := make([]Record, n)
	for i := range records {
		sku := start + i + 1
		records[i] = Record{
			Dimensions: []Dimension{
				{ID: "2024-01", Name: "January 2024"},
				{ID: fmt.Sprintf("%d", sku), Name: fmt.Sprintf("Product %d", sku)},
			},
			Metrics: []float64{1, 1, 10},
		}
	}
	return records
}

// NewRecord builds a single record from plain values.
func NewRecord(monthID, skuID, skuName string, views, units, revenue float64) Record {
	return Record{
		Dimensions: []Dimension{
			{ID: monthID, Name: monthID},
			{ID: skuID, Name: skuName},
		},
		Metrics: []float64{views, units, revenue},
	}
}

// NewErrorResponse creates an API error response with the given status.
func NewErrorResponse(status int, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"code":%d,"message":%q}`, status, message),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 response asking the caller to retry after retryAfter seconds.
func NewRateLimitResponse(retryAfter int) MockResponse {
	resp := NewErrorResponse(http.StatusTooManyRequests, "too many requests")
	resp.Headers["Retry-After"] = fmt.Sprintf("%d", retryAfter)
	return resp
}

// NewMalformedResponse creates a 200 response without the result envelope.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data":[]}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
