package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

const mysqlTimeLayout = "2006-01-02 15:04:05"

// MySQLHistory is a MySQL implementation of the HistoryRepository
// interface, intended for history shared across a team.
type MySQLHistory struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLHistory creates a new MySQL history repository.
func NewMySQLHistory(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLHistory, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			url VARCHAR(2048) NOT NULL,
			prediction VARCHAR(16) NOT NULL,
			confidence FLOAT NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			source_type VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			INDEX idx_created_at (created_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	h := &MySQLHistory{
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
func (h *MySQLHistory) Append(ctx context.Context, entries []core.HistoryEntry) error {
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
			string(e.SourceType), e.CreatedAt.UTC().Format(mysqlTimeLayout))
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
func (h *MySQLHistory) List(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
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
		e.CreatedAt, err = time.Parse(mysqlTimeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Cleanup removes entries older than the retention window.
func (h *MySQLHistory) Cleanup(ctx context.Context) error {
	result, err := h.db.ExecContext(ctx, `
		DELETE FROM scan_history
		WHERE created_at <= ?
	`, time.Now().Add(-h.retention).UTC().Format(mysqlTimeLayout))
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
func (h *MySQLHistory) startCleanupTask() {
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
func (h *MySQLHistory) Stop() {
	close(h.stopCh)
	if err := h.db.Close(); err != nil {
		h.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
