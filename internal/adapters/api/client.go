package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

const userAgent = "ShieldSightCLI/1.0"

// Client is the HTTP implementation of core.PredictionClient plus the
// peripheral contact and avatar endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// batchRequest is the POST /predict/batch payload.
type batchRequest struct {
	URLs []string `json:"urls"`
}

// resultPayload mirrors one result item of the prediction API. The
// probability fields are pointers so an omitted value can be told apart
// from an explicit zero.
type resultPayload struct {
	URL                   string   `json:"url"`
	Prediction            string   `json:"prediction"`
	Confidence            float64  `json:"confidence"`
	RiskLevel             string   `json:"risk_level"`
	PhishingProbability   *float64 `json:"phishing_probability"`
	LegitimateProbability *float64 `json:"legitimate_probability"`
	Timestamp             string   `json:"timestamp"`
}

// batchResponse mirrors the combined batch response envelope.
type batchResponse struct {
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []resultPayload `json:"results"`
	Errors     []core.RowError `json:"errors"`
	Timestamp  string          `json:"timestamp"`
}

// PredictBatch submits the full URL list in one call. The call is atomic:
// a transport or API failure yields no results at all.
func (c *Client) PredictBatch(ctx context.Context, urls []string) (*core.BatchReport, error) {
	var resp batchResponse
	if err := c.postJSON(ctx, "/predict/batch", batchRequest{URLs: urls}, &resp); err != nil {
		return nil, err
	}

	results := make([]core.BatchResult, 0, len(resp.Results))
	for _, item := range resp.Results {
		results = append(results, normalize(item))
	}

	report := &core.BatchReport{
		Results: results,
		Counters: core.ProgressCounters{
			Total:      resp.Total,
			Processed:  resp.Total,
			Successful: resp.Successful,
			Failed:     resp.Failed,
		},
		Errors: resp.Errors,
	}

	c.logger.Debug("Batch response received",
		zap.Int("total", resp.Total),
		zap.Int("successful", resp.Successful),
		zap.Int("failed", resp.Failed))

	return report, nil
}

// PredictURL classifies a single URL.
func (c *Client) PredictURL(ctx context.Context, url string) (*core.BatchResult, error) {
	var item resultPayload
	if err := c.postJSON(ctx, "/predict", map[string]string{"url": url}, &item); err != nil {
		return nil, err
	}
	result := normalize(item)
	return &result, nil
}

// normalize maps a raw result item to the domain record. When the response
// does not supply explicit probabilities, they are derived from confidence:
// the predicted class gets the confidence, the other 1 - confidence.
func normalize(item resultPayload) core.BatchResult {
	r := core.BatchResult{
		URL:        item.URL,
		Prediction: core.Prediction(item.Prediction),
		Confidence: item.Confidence,
		RiskLevel:  core.RiskLevel(item.RiskLevel),
		Timestamp:  parseTimestamp(item.Timestamp),
	}

	if item.PhishingProbability != nil && item.LegitimateProbability != nil {
		r.PhishingProbability = *item.PhishingProbability
		r.LegitimateProbability = *item.LegitimateProbability
		return r
	}

	if r.Prediction == core.PredictionPhishing {
		r.PhishingProbability = r.Confidence
		r.LegitimateProbability = 1 - r.Confidence
	} else {
		r.LegitimateProbability = r.Confidence
		r.PhishingProbability = 1 - r.Confidence
	}
	return r
}

// parseTimestamp parses the server's evaluation time, falling back to the
// local clock when the field is missing or malformed.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// postJSON sends a JSON request and decodes a JSON response, surfacing the
// server-supplied error message on non-2xx statuses.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("prediction API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
