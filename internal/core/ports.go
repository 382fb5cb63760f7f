package core

import (
	"context"
)

// PredictionClient defines the interface to the remote prediction API.
type PredictionClient interface {
	// PredictBatch submits the full URL list in one call and returns the
	// normalized per-URL results with counters.
	PredictBatch(ctx context.Context, urls []string) (*BatchReport, error)

	// PredictURL classifies a single URL.
	PredictURL(ctx context.Context, url string) (*BatchResult, error)
}

// HistoryRepository defines the interface for the persistent scan history.
type HistoryRepository interface {
	// Append records the given entries.
	Append(ctx context.Context, entries []HistoryEntry) error

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Stop releases the repository's resources.
	Stop()
}

// SessionStore defines the local persistence interface for the auth session.
type SessionStore interface {
	// Load reads the persisted session. A missing file yields (nil, nil).
	Load() (*Session, error)

	// Save persists the session, replacing any previous one.
	Save(session *Session) error

	// Clear removes the persisted session.
	Clear() error
}
