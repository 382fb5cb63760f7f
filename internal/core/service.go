package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoURLs is returned when extraction produced no candidate URLs.
	ErrNoURLs = errors.New("no URLs found in input")

	// ErrBatchLimitExceeded is returned when the candidate list is larger
	// than the configured batch limit. The submission is rejected whole,
	// never truncated.
	ErrBatchLimitExceeded = errors.New("batch size limit exceeded")
)

// BatchService orchestrates the batch pipeline: it validates the candidate
// URL list, submits it to the prediction API in one call, replaces the
// result store, and forwards the results to the history repository.
type BatchService struct {
	client       PredictionClient
	store        *ResultStore
	history      HistoryRepository
	logger       *zap.Logger
	maxBatchSize int
}

// NewBatchService creates a new batch service.
func NewBatchService(
	client PredictionClient,
	store *ResultStore,
	history HistoryRepository,
	logger *zap.Logger,
	maxBatchSize int,
) *BatchService {
	return &BatchService{
		client:       client,
		store:        store,
		history:      history,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

// Run submits the candidate URL list as one batch. The call is atomic from
// the caller's perspective: on failure no results are produced and the
// store is left unchanged.
func (s *BatchService) Run(ctx context.Context, urls []string, source SourceType) (*BatchReport, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	if len(urls) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: got %d URLs, limit is %d", ErrBatchLimitExceeded, len(urls), s.maxBatchSize)
	}

	report, err := s.client.PredictBatch(ctx, urls)
	if err != nil {
		return nil, err
	}
	report.BatchID = uuid.NewString()

	s.store.Replace(report.Results, report.Counters)
	s.logger.Info("Batch completed",
		zap.String("batch_id", report.BatchID),
		zap.Int("total", report.Counters.Total),
		zap.Int("successful", report.Counters.Successful),
		zap.Int("failed", report.Counters.Failed),
		zap.String("source", string(source)))

	s.recordHistory(ctx, report.Results, source)

	return report, nil
}

// ScanURL classifies a single URL and records it to history as a manual scan.
func (s *BatchService) ScanURL(ctx context.Context, url string) (*BatchResult, error) {
	result, err := s.client.PredictURL(ctx, url)
	if err != nil {
		return nil, err
	}

	s.store.Replace([]BatchResult{*result}, ProgressCounters{Total: 1, Processed: 1, Successful: 1})
	s.recordHistory(ctx, []BatchResult{*result}, SourceManual)

	return result, nil
}

// recordHistory forwards results to the history repository. Failures are
// logged and never propagated; history must not fail the in-memory update.
func (s *BatchService) recordHistory(ctx context.Context, results []BatchResult, source SourceType) {
	if s.history == nil || len(results) == 0 {
		return
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, HistoryEntry{
			URL:        r.URL,
			Prediction: r.Prediction,
			Confidence: r.Confidence,
			RiskLevel:  r.RiskLevel,
			SourceType: source,
			CreatedAt:  r.Timestamp,
		})
	}

	if err := s.history.Append(ctx, entries); err != nil {
		s.logger.Error("Failed to record history", zap.Error(err), zap.Int("entries", len(entries)))
	}
}
