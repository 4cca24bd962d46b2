package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
	"github.com/shopspring/decimal"
)

func sampleResult() *classify.Result {
	return &classify.Result{
		Months: []string{"2024-01", "2024-02"},
		Rows: []classify.FinalRow{
			{
				SKUID:          "100",
				ABCClass:       "A",
				ABCRank:        1,
				TotalRevenue:   decimal.RequireFromString("600.50"),
				DemandPerMonth: map[string]float64{"2024-01": 4, "2024-02": 6},
				StdDemand:      math.Sqrt2,
				TotalDemand:    10,
				AvgDemand:      5,
				CovDemand:      math.Sqrt2 / 5,
				CovDefined:     true,
				XYZClass:       "X",
				ABCXYZClass:    "AX",
				SKUName:        "Kettle, steel",
				HitsViewPDP:    90,
			},
			{
				SKUID:          "200",
				ABCClass:       "C",
				ABCRank:        2,
				TotalRevenue:   decimal.RequireFromString("100"),
				DemandPerMonth: map[string]float64{"2024-01": 0, "2024-02": 0},
				StdDemand:      0,
				TotalDemand:    0,
				AvgDemand:      0,
				CovDemand:      math.NaN(),
				XYZClass:       "Z",
				ABCXYZClass:    "CZ",
				SKUName:        "Mug",
				HitsViewPDP:    12,
			},
		},
		Warnings: []classify.ComputationWarning{
			{SKUID: "200", Field: "cov_demand", Value: math.NaN(), Reason: "zero average demand"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" text ", FormatText, false},
		{"xlsx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestColumns(t *testing.T) {
	got := strings.Join(Columns([]string{"2024-01", "2024-02"}), ",")
	want := "sku_id,abc_class,abc_rank,total_revenue,2024-01,2024-02,std_demand,total_demand,avg_demand,cov_demand,xyz_class,abc_xyz_class,sku_name,hits_view_pdp"
	if got != want {
		t.Errorf("Columns() = %s\nwant %s", got, want)
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleResult()); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2", len(records))
	}

	first := records[1]
	if first[0] != "100" || first[3] != "600.5" || first[4] != "4" || first[5] != "6" {
		t.Errorf("first row = %v", first)
	}
	if first[12] != "Kettle, steel" {
		t.Errorf("sku_name = %q, want the quoted name intact", first[12])
	}

	second := records[2]
	if second[9] != "" {
		t.Errorf("NaN cov_demand = %q, want empty", second[9])
	}
	if second[11] != "CZ" {
		t.Errorf("abc_xyz_class = %q, want CZ", second[11])
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleResult()); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	var doc struct {
		Months []string         `json:"months"`
		Rows   []map[string]any `json:"rows"`
		Warn   []map[string]any `json:"warnings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(doc.Months) != 2 || len(doc.Rows) != 2 || len(doc.Warn) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Rows[1]["cov_demand"] != nil {
		t.Errorf("NaN cov_demand = %v, want null", doc.Rows[1]["cov_demand"])
	}
	if doc.Rows[0]["total_revenue"] != "600.5" {
		t.Errorf("total_revenue = %v, want \"600.5\"", doc.Rows[0]["total_revenue"])
	}
	if doc.Rows[0]["abc_rank"] != float64(1) {
		t.Errorf("abc_rank = %v, want 1", doc.Rows[0]["abc_rank"])
	}
	if doc.Warn[0]["value"] != nil {
		t.Errorf("warning value = %v, want null", doc.Warn[0]["value"])
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleResult()); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "sku_id") {
		t.Errorf("first line = %q, want header", lines[0])
	}
	if !strings.Contains(out, "Kettle, steel") {
		t.Error("expected product name in output")
	}
	if !strings.Contains(out, "1 warning(s)") || !strings.Contains(out, "zero average demand") {
		t.Errorf("expected warning section, got:\n%s", out)
	}
}

func TestWriteSummary(t *testing.T) {
	summary := []classify.ClassSummary{
		{Class: "A", SKUs: 1, TotalUnits: 10, Revenue: decimal.RequireFromString("600.5")},
		{Class: "C", SKUs: 1, TotalUnits: 0, Revenue: decimal.RequireFromString("100")},
	}

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatCSV, summary); err != nil {
			t.Fatalf("WriteSummary() failed: %v", err)
		}
		want := "abc_class,total_skus,total_units,total_revenue\nA,1,10,600.50\nC,1,0,100.00\n"
		if buf.String() != want {
			t.Errorf("csv = %q, want %q", buf.String(), want)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatJSON, summary); err != nil {
			t.Fatalf("WriteSummary() failed: %v", err)
		}
		var got []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[0]["abc_class"] != "A" || got[0]["total_skus"] != float64(1) {
			t.Errorf("summary = %v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatText, summary); err != nil {
			t.Fatalf("WriteSummary() failed: %v", err)
		}
		if !strings.Contains(buf.String(), "600.50") {
			t.Errorf("text summary = %q", buf.String())
		}
	})
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), sampleResult()); err == nil {
		t.Error("Expected error for unknown format")
	}
}
