package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

func sampleResults() []core.BatchResult {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return []core.BatchResult{
		{
			URL:                   "http://phish.example",
			Prediction:            core.PredictionPhishing,
			Confidence:            0.95,
			RiskLevel:             core.RiskHigh,
			PhishingProbability:   0.95,
			LegitimateProbability: 0.05,
			Timestamp:             ts,
		},
		{
			URL:                   "https://ok.example",
			Prediction:            core.PredictionLegitimate,
			Confidence:            0.8,
			RiskLevel:             core.RiskLow,
			PhishingProbability:   0.2,
			LegitimateProbability: 0.8,
			Timestamp:             ts,
		},
	}
}

func TestCSV(t *testing.T) {
	got := string(CSV(sampleResults()))
	lines := strings.Split(got, "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "URL,Prediction,Confidence,Risk Level,Phishing Probability,Legitimate Probability" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != `"http://phish.example","phishing","95.00%","high","95.00%","5.00%"` {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if lines[2] != `"https://ok.example","legitimate","80.00%","low","20.00%","80.00%"` {
		t.Errorf("unexpected second row: %q", lines[2])
	}
}

func TestCSVEmpty(t *testing.T) {
	got := string(CSV(nil))
	if got != "URL,Prediction,Confidence,Risk Level,Phishing Probability,Legitimate Probability" {
		t.Errorf("empty export should be header only, got %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	results := sampleResults()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	payload, err := JSON(results, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		ExportedAt   string             `json:"exported_at"`
		TotalResults int                `json:"total_results"`
		Results      []core.BatchResult `json:"results"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if parsed.TotalResults != len(results) {
		t.Errorf("total_results = %d, want %d", parsed.TotalResults, len(results))
	}
	if parsed.ExportedAt != "2026-03-14T10:00:00Z" {
		t.Errorf("exported_at = %q", parsed.ExportedAt)
	}
	if len(parsed.Results) != len(results) {
		t.Fatalf("round trip lost results: %d != %d", len(parsed.Results), len(results))
	}
	for i := range results {
		if parsed.Results[i] != results[i] {
			t.Errorf("result %d changed in round trip:\n got %+v\nwant %+v", i, parsed.Results[i], results[i])
		}
	}
}

func TestText(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	got := string(Text(sampleResults(), now))

	rule := strings.Repeat("=", 50)
	for _, want := range []string{
		"ShieldSight Batch Analysis Report",
		rule,
		"Generated: 2026-03-14T10:00:00Z",
		"Total Results: 2",
		"1. http://phish.example",
		"Prediction: PHISHING",
		"Risk Level: HIGH",
		"Confidence: 95.00%",
		"2. https://ok.example",
		"Prediction: LEGITIMATE",
		"Legitimate Probability: 80.00%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}

	if n := strings.Count(got, rule); n != 2 {
		t.Errorf("expected the rule line twice, found %d", n)
	}
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1757500000000)
	tests := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "batch_analysis_1757500000000.csv"},
		{FormatJSON, "batch_analysis_1757500000000.json"},
		{FormatTXT, "batch_analysis_1757500000000.txt"},
	}
	for _, tt := range tests {
		if got := Filename(tt.format, now); got != tt.want {
			t.Errorf("Filename(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	got, err := ParseFormat("CSV")
	if err != nil || got != FormatCSV {
		t.Errorf("ParseFormat(CSV) = %v, %v", got, err)
	}
}
