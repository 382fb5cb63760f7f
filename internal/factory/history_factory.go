package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/adapters/history"
	"github.com/shieldsight/shieldsight-cli/internal/config"
	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// HistoryFactory creates history repositories based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryRepository creates a history repository based on the
// configuration. When history is disabled it returns an in-memory
// repository so callers never deal with a nil collaborator.
func (f *HistoryFactory) CreateHistoryRepository() (core.HistoryRepository, error) {
	hc := f.cfg.GetHistory()

	if !hc.Enabled {
		return history.NewMemoryHistory(f.logger), nil
	}

	retention, err := f.cfg.GetDuration("history.retention")
	if err != nil {
		return nil, fmt.Errorf("invalid history retention: %w", err)
	}
	cleanupFreq, err := f.cfg.GetDuration("history.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid history cleanup frequency: %w", err)
	}

	switch hc.Type {
	case "memory":
		return history.NewMemoryHistory(f.logger), nil
	case "badger":
		if err := os.MkdirAll(hc.BadgerPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create badger directory: %w", err)
		}
		return history.NewBadgerHistory(hc.BadgerPath, f.logger, retention, cleanupFreq)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(hc.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return history.NewSQLiteHistory(hc.SQLitePath, f.logger, retention, cleanupFreq)
	case "mysql":
		return history.NewMySQLHistory(hc.MySQLDSN, f.logger, retention, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", hc.Type)
	}
}
