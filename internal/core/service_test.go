package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakePredictionClient counts calls and returns a canned report.
type fakePredictionClient struct {
	calls  int
	report *BatchReport
	err    error
}

func (f *fakePredictionClient) PredictBatch(ctx context.Context, urls []string) (*BatchReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakePredictionClient) PredictURL(ctx context.Context, url string) (*BatchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &f.report.Results[0], nil
}

// fakeHistory records appended entries.
type fakeHistory struct {
	entries []HistoryEntry
	err     error
}

func (f *fakeHistory) Append(ctx context.Context, entries []HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistory) Stop() {}

func sampleReport(n int) *BatchReport {
	results := make([]BatchResult, n)
	for i := range results {
		results[i] = BatchResult{
			URL:        fmt.Sprintf("http://site-%d.com", i),
			Prediction: PredictionPhishing,
			Confidence: 0.9,
			RiskLevel:  RiskHigh,
			Timestamp:  time.Now(),
		}
	}
	return &BatchReport{
		Results: results,
		Counters: ProgressCounters{
			Total:      n,
			Processed:  n,
			Successful: n,
		},
	}
}

func manyURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://site-%d.com", i)
	}
	return urls
}

func TestRunRejectsEmptyList(t *testing.T) {
	client := &fakePredictionClient{report: sampleReport(0)}
	svc := NewBatchService(client, NewResultStore(), &fakeHistory{}, zap.NewNop(), 100)

	_, err := svc.Run(context.Background(), nil, SourceEmail)
	if !errors.Is(err, ErrNoURLs) {
		t.Fatalf("expected ErrNoURLs, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("network call made for empty input")
	}
}

func TestRunRejectsOversizedBatchBeforeNetworkCall(t *testing.T) {
	client := &fakePredictionClient{report: sampleReport(0)}
	store := NewResultStore()
	svc := NewBatchService(client, store, &fakeHistory{}, zap.NewNop(), 100)

	_, err := svc.Run(context.Background(), manyURLs(101), SourceManual)
	if !errors.Is(err, ErrBatchLimitExceeded) {
		t.Fatalf("expected ErrBatchLimitExceeded, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("oversized batch reached the network: %d calls", client.calls)
	}
	if store.Len() != 0 {
		t.Errorf("store mutated on rejected batch")
	}
}

func TestRunReplacesStoreAndRecordsHistory(t *testing.T) {
	client := &fakePredictionClient{report: sampleReport(3)}
	store := NewResultStore()
	history := &fakeHistory{}
	svc := NewBatchService(client, store, history, zap.NewNop(), 100)

	// Pre-existing results from an earlier batch get replaced wholesale.
	store.Replace([]BatchResult{{URL: "http://old.com"}}, ProgressCounters{Total: 1, Processed: 1, Successful: 1})

	report, err := svc.Run(context.Background(), manyURLs(3), SourceEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.BatchID == "" {
		t.Error("expected a batch ID")
	}

	if store.Len() != 3 {
		t.Fatalf("store has %d results, want 3", store.Len())
	}
	for _, r := range store.Snapshot() {
		if r.URL == "http://old.com" {
			t.Error("old results leaked into the new batch")
		}
	}

	if len(history.entries) != 3 {
		t.Fatalf("history has %d entries, want 3", len(history.entries))
	}
	for _, e := range history.entries {
		if e.SourceType != SourceEmail {
			t.Errorf("sourceType = %q, want email", e.SourceType)
		}
	}
}

func TestRunLeavesStoreUntouchedOnFailure(t *testing.T) {
	client := &fakePredictionClient{err: errors.New("connection refused")}
	store := NewResultStore()
	store.Replace([]BatchResult{{URL: "http://old.com"}}, ProgressCounters{Total: 1, Processed: 1, Successful: 1})
	svc := NewBatchService(client, store, &fakeHistory{}, zap.NewNop(), 100)

	_, err := svc.Run(context.Background(), manyURLs(2), SourceManual)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if store.Len() != 1 || store.Snapshot()[0].URL != "http://old.com" {
		t.Errorf("failed batch mutated the store")
	}
}

func TestRunHistoryFailureDoesNotFailBatch(t *testing.T) {
	client := &fakePredictionClient{report: sampleReport(2)}
	history := &fakeHistory{err: errors.New("disk full")}
	store := NewResultStore()
	svc := NewBatchService(client, store, history, zap.NewNop(), 100)

	if _, err := svc.Run(context.Background(), manyURLs(2), SourceManual); err != nil {
		t.Fatalf("history failure must not fail the batch: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("in-memory update lost: %d results", store.Len())
	}
}

func TestProgressCountersFromPartialServerFailures(t *testing.T) {
	report := sampleReport(10)
	report.Counters = ProgressCounters{Total: 10, Processed: 10, Successful: 8, Failed: 2}
	client := &fakePredictionClient{report: report}
	store := NewResultStore()
	svc := NewBatchService(client, store, &fakeHistory{}, zap.NewNop(), 100)

	got, err := svc.Run(context.Background(), manyURLs(10), SourceManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Counters.Processed != got.Counters.Total {
		t.Errorf("processed = %d, want total %d", got.Counters.Processed, got.Counters.Total)
	}
	if got.Counters.Successful+got.Counters.Failed != got.Counters.Total {
		t.Errorf("successful + failed != total: %+v", got.Counters)
	}
}

func TestScanURLRecordsManualHistory(t *testing.T) {
	client := &fakePredictionClient{report: sampleReport(1)}
	history := &fakeHistory{}
	store := NewResultStore()
	svc := NewBatchService(client, store, history, zap.NewNop(), 100)

	if _, err := svc.ScanURL(context.Background(), "http://site-0.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d results, want 1", store.Len())
	}
	if len(history.entries) != 1 || history.entries[0].SourceType != SourceManual {
		t.Errorf("unexpected history: %+v", history.entries)
	}
}
