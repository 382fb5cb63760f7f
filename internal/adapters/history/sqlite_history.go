package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// SQLiteHistory is a SQLite implementation of the HistoryRepository
// interface backed by a local database file.
type SQLiteHistory struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteHistory creates a new SQLite history repository. Entries older
// than the retention window are pruned by a background task.
func NewSQLiteHistory(dbPath string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			prediction TEXT NOT NULL,
			confidence REAL NOT NULL,
			risk_level TEXT NOT NULL,
			source_type TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_created_at ON scan_history(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	h := &SQLiteHistory{
		db:          db,
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go h.startCleanupTask()

	return h, nil
}

// Append records the given entries in one transaction.
func (h *SQLiteHistory) Append(ctx context.Context, entries []core.HistoryEntry) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scan_history (url, prediction, confidence, risk_level, source_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.URL, string(e.Prediction), e.Confidence, string(e.RiskLevel),
			string(e.SourceType), e.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entries: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (h *SQLiteHistory) List(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT url, prediction, confidence, risk_level, source_type, created_at
		FROM scan_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var e core.HistoryEntry
		var prediction, riskLevel, sourceType, createdAt string
		if err := rows.Scan(&e.URL, &prediction, &e.Confidence, &riskLevel, &sourceType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Prediction = core.Prediction(prediction)
		e.RiskLevel = core.RiskLevel(riskLevel)
		e.SourceType = core.SourceType(sourceType)
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Cleanup removes entries older than the retention window.
func (h *SQLiteHistory) Cleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-h.retention).UTC().Format(time.RFC3339)
	result, err := h.db.ExecContext(ctx, `
		DELETE FROM scan_history
		WHERE created_at <= ?
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		h.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		h.logger.Debug("Pruned old history entries", zap.Int64("pruned_count", rowsAffected))
	}
	return nil
}

// startCleanupTask starts a background task to prune old entries.
func (h *SQLiteHistory) startCleanupTask() {
	ticker := time.NewTicker(h.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := h.Cleanup(context.Background()); err != nil {
				h.logger.Error("Failed to prune history", zap.Error(err))
			}
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database.
func (h *SQLiteHistory) Stop() {
	close(h.stopCh)
	if err := h.db.Close(); err != nil {
		h.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
