package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// keyPrefix namespaces history entries inside the badger keyspace.
var keyPrefix = []byte("scan:")

// BadgerHistory is an embedded key-value implementation of the
// HistoryRepository interface and the default local backend. Keys are
// ordered by creation time so newest-first listing is a reverse scan.
type BadgerHistory struct {
	db     *badger.DB
	logger *zap.Logger
	gcFreq time.Duration
	stopCh chan struct{}
	seq    atomic.Uint64
	ttl    time.Duration
}

// NewBadgerHistory opens (or creates) the badger database at path. Entries
// expire after the retention window via badger's native TTL; the value log
// is garbage-collected by a background task.
func NewBadgerHistory(path string, logger *zap.Logger, retention, gcFreq time.Duration) (*BadgerHistory, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	h := &BadgerHistory{
		db:     db,
		logger: logger,
		gcFreq: gcFreq,
		stopCh: make(chan struct{}),
		ttl:    retention,
	}

	go h.startGCTask()

	return h, nil
}

// entryKey builds a time-ordered key: prefix + big-endian unix-nanos +
// an in-process sequence number to keep same-nanosecond entries distinct.
func (h *BadgerHistory) entryKey(t time.Time) []byte {
	key := make([]byte, len(keyPrefix)+16)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], uint64(t.UnixNano()))
	binary.BigEndian.PutUint64(key[len(keyPrefix)+8:], h.seq.Add(1))
	return key
}

// Append records the given entries in one transaction.
func (h *BadgerHistory) Append(ctx context.Context, entries []core.HistoryEntry) error {
	err := h.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			value, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to encode history entry: %w", err)
			}
			record := badger.NewEntry(h.entryKey(e.CreatedAt), value)
			if h.ttl > 0 {
				record = record.WithTTL(h.ttl)
			}
			if err := txn.SetEntry(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history entries: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (h *BadgerHistory) List(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	var entries []core.HistoryEntry

	err := h.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts just past the highest possible key.
		seek := append(append([]byte{}, keyPrefix...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		for it.Seek(seek); it.Valid() && (limit <= 0 || len(entries) < limit); it.Next() {
			var e core.HistoryEntry
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &e)
			})
			if err != nil {
				return fmt.Errorf("failed to decode history entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// startGCTask runs periodic value-log garbage collection.
func (h *BadgerHistory) startGCTask() {
	ticker := time.NewTicker(h.gcFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := h.db.RunValueLogGC(0.5)
			if err != nil && err != badger.ErrNoRewrite {
				h.logger.Error("Badger value log GC failed", zap.Error(err))
			}
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the GC task and closes the database.
func (h *BadgerHistory) Stop() {
	close(h.stopCh)
	if err := h.db.Close(); err != nil {
		h.logger.Error("Failed to close badger database", zap.Error(err))
	}
}
