package core

import (
	"sync"
)

// ResultStore holds the most recent batch's results and counters for the
// current session. A new batch replaces the collection wholesale.
type ResultStore struct {
	mu       sync.RWMutex
	results  []BatchResult
	counters ProgressCounters
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Replace overwrites the entire collection and its counters. There is no
// merge with previous batches.
func (s *ResultStore) Replace(results []BatchResult, counters ProgressCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = make([]BatchResult, len(results))
	copy(s.results, results)
	s.counters = counters
}

// Snapshot returns a copy of the current result collection.
func (s *ResultStore) Snapshot() []BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BatchResult, len(s.results))
	copy(out, s.results)
	return out
}

// Counters returns the progress counters of the current batch.
func (s *ResultStore) Counters() ProgressCounters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counters
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.results)
}
