package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
	"github.com/shopspring/decimal"
)

// Float is a float64 that marshals NaN and infinities as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Row is one SKU in the JSON document.
type Row struct {
	SKUID          string           `json:"sku_id"`
	ABCClass       string           `json:"abc_class"`
	ABCRank        *int             `json:"abc_rank"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	DemandPerMonth map[string]Float `json:"demand_per_month"`
	StdDemand      Float            `json:"std_demand"`
	TotalDemand    Float            `json:"total_demand"`
	AvgDemand      Float            `json:"avg_demand"`
	CovDemand      Float            `json:"cov_demand"`
	XYZClass       string           `json:"xyz_class"`
	ABCXYZClass    string           `json:"abc_xyz_class"`
	SKUName        string           `json:"sku_name"`
	HitsViewPDP    Float            `json:"hits_view_pdp"`
}

// Warning is a computation warning in the JSON document.
type Warning struct {
	SKUID  string `json:"sku_id"`
	Field  string `json:"field"`
	Value  Float  `json:"value"`
	Reason string `json:"reason"`
}

// Document is the JSON representation of a classified table.
type Document struct {
	Months   []string                `json:"months"`
	Rows     []Row                   `json:"rows"`
	Warnings []Warning               `json:"warnings"`
	Summary  []classify.ClassSummary `json:"summary,omitempty"`
}

// NewDocument converts a result into its JSON form. summary is optional.
func NewDocument(result *classify.Result, summary []classify.ClassSummary) Document {
	doc := Document{
		Months:   result.Months,
		Rows:     make([]Row, 0, len(result.Rows)),
		Warnings: make([]Warning, 0, len(result.Warnings)),
		Summary:  summary,
	}
	if doc.Months == nil {
		doc.Months = []string{}
	}

	for _, r := range result.Rows {
		row := Row{
			SKUID:        r.SKUID,
			ABCClass:     r.ABCClass,
			TotalRevenue: r.TotalRevenue,
			StdDemand:    Float(r.StdDemand),
			TotalDemand:  Float(r.TotalDemand),
			AvgDemand:    Float(r.AvgDemand),
			CovDemand:    Float(r.CovDemand),
			XYZClass:     r.XYZClass,
			ABCXYZClass:  r.ABCXYZClass,
			SKUName:      r.SKUName,
			HitsViewPDP:  Float(r.HitsViewPDP),
		}
		if r.ABCRank > 0 {
			rank := r.ABCRank
			row.ABCRank = &rank
		}
		if r.DemandPerMonth != nil {
			row.DemandPerMonth = make(map[string]Float, len(r.DemandPerMonth))
			for m, v := range r.DemandPerMonth {
				row.DemandPerMonth[m] = Float(v)
			}
		}
		doc.Rows = append(doc.Rows, row)
	}

	for _, w := range result.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{
			SKUID:  w.SKUID,
			Field:  w.Field,
			Value:  Float(w.Value),
			Reason: w.Reason,
		})
	}
	return doc
}

func writeJSON(w io.Writer, result *classify.Result) error {
	return WriteDocument(w, NewDocument(result, nil))
}

// WriteDocument writes doc as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	return encodeIndented(w, doc)
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
