package analytics

import (
	"encoding/json"
	"fmt"
)

// DimensionValue is one {id, name} pair of a record.
type DimensionValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is one raw API record: dimension values followed by metric values,
// in the order requested.
type Record struct {
	Dimensions []DimensionValue `json:"dimensions"`
	Metrics    []float64        `json:"metrics"`
}

// FlatRow is one (month, SKU) row of the flattened table.
type FlatRow struct {
	MonthID        string  `json:"month_id"`
	MonthName      string  `json:"month_name"`
	SKUID          string  `json:"sku_id"`
	SKUName        string  `json:"sku_name"`
	HitsViewPDP    float64 `json:"hits_view_pdp"`
	DeliveredUnits float64 `json:"delivered_units"`
	Revenue        float64 `json:"revenue"`
}

// DataFormatError is returned when a response does not have the expected shape.
type DataFormatError struct {
	Offset int
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected analytics response at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected analytics response at offset %d: %s", e.Offset, e.Reason)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// response is the envelope of the analytics method. Pointers tell a missing
// field apart from an empty one.
type response struct {
	Result *struct {
		Data *[]Record `json:"data"`
	} `json:"result"`
}

// decodePage validates the envelope and returns the records of one page.
func decodePage(body []byte, offset int) ([]Record, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DataFormatError{Offset: offset, Reason: "invalid JSON", Err: err}
	}
	if resp.Result == nil {
		return nil, &DataFormatError{Offset: offset, Reason: `missing "result"`}
	}
	if resp.Result.Data == nil {
		return nil, &DataFormatError{Offset: offset, Reason: `missing "result.data"`}
	}

	records := *resp.Result.Data
	for i, r := range records {
		if len(r.Dimensions) < 2 {
			return nil, &DataFormatError{
				Offset: offset,
				Reason: fmt.Sprintf("record %d has %d dimensions, want 2", i, len(r.Dimensions)),
			}
		}
		if len(r.Metrics) < 3 {
			return nil, &DataFormatError{
				Offset: offset,
				Reason: fmt.Sprintf("record %d has %d metrics, want 3", i, len(r.Metrics)),
			}
		}
	}
	return records, nil
}

// Flatten projects records onto rows: dimensions [month, sku] and metrics
// [hits_view_pdp, delivered_units, revenue]. Records must have been validated.
func Flatten(records []Record) []FlatRow {
	rows := make([]FlatRow, 0, len(records))
	for _, r := range records {
		month, sku := r.Dimensions[0], r.Dimensions[1]
		rows = append(rows, FlatRow{
			MonthID:        month.ID,
			MonthName:      month.Name,
			SKUID:          sku.ID,
			SKUName:        sku.Name,
			HitsViewPDP:    r.Metrics[0],
			DeliveredUnits: r.Metrics[1],
			Revenue:        r.Metrics[2],
		})
	}
	return rows
}
