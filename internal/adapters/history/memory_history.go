package history

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// MemoryHistory is an in-memory implementation of the HistoryRepository
// interface. It does not survive process restarts and is mainly useful in
// tests and one-shot runs with history persistence disabled.
type MemoryHistory struct {
	entries []core.HistoryEntry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryHistory creates a new in-memory history repository.
func NewMemoryHistory(logger *zap.Logger) *MemoryHistory {
	return &MemoryHistory{logger: logger}
}

// Append records the given entries.
func (h *MemoryHistory) Append(ctx context.Context, entries []core.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entries...)
	return nil
}

// List returns up to limit entries, newest first.
func (h *MemoryHistory) List(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]core.HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

// Stop is a no-op for the in-memory repository.
func (h *MemoryHistory) Stop() {}
