package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// Format identifies an export serialization format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTXT:
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// Filename returns the download filename for the given format, stamped
// with epoch milliseconds.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("batch_analysis_%d.%s", now.UnixMilli(), format)
}

// Serialize renders the result set in the requested format. Serialization
// is all-or-nothing in memory; no partial payload is ever produced.
func Serialize(format Format, results []core.BatchResult, now time.Time) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(results), nil
	case FormatJSON:
		return JSON(results, now)
	case FormatTXT:
		return Text(results, now), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

const csvHeader = "URL,Prediction,Confidence,Risk Level,Phishing Probability,Legitimate Probability"

// CSV renders the result set with a fixed header row. Every data field is
// quoted and percentages carry two decimal places.
func CSV(results []core.BatchResult) []byte {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, r := range results {
		b.WriteByte('\n')
		fields := []string{
			r.URL,
			string(r.Prediction),
			percent(r.Confidence),
			string(r.RiskLevel),
			percent(r.PhishingProbability),
			percent(r.LegitimateProbability),
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}

// jsonEnvelope is the JSON export payload.
type jsonEnvelope struct {
	ExportedAt   string             `json:"exported_at"`
	TotalResults int                `json:"total_results"`
	Results      []core.BatchResult `json:"results"`
}

// JSON renders the result set pretty-printed with an export timestamp and
// total count.
func JSON(results []core.BatchResult, now time.Time) ([]byte, error) {
	if results == nil {
		results = []core.BatchResult{}
	}
	payload := jsonEnvelope{
		ExportedAt:   now.UTC().Format(time.RFC3339),
		TotalResults: len(results),
		Results:      results,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JSON export: %w", err)
	}
	return data, nil
}

const reportTitle = "ShieldSight Batch Analysis Report"

// Text renders the plain-text report: a banner followed by one numbered
// block per result.
func Text(results []core.BatchResult, now time.Time) []byte {
	rule := strings.Repeat("=", 50)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", reportTitle, rule)
	fmt.Fprintf(&b, "Generated: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Results: %d\n%s\n", len(results), rule)

	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, r.URL)
		fmt.Fprintf(&b, "   Prediction: %s\n", strings.ToUpper(string(r.Prediction)))
		fmt.Fprintf(&b, "   Confidence: %s\n", percent(r.Confidence))
		fmt.Fprintf(&b, "   Risk Level: %s\n", strings.ToUpper(string(r.RiskLevel)))
		fmt.Fprintf(&b, "   Phishing Probability: %s\n", percent(r.PhishingProbability))
		fmt.Fprintf(&b, "   Legitimate Probability: %s\n", percent(r.LegitimateProbability))
	}

	return []byte(b.String())
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
