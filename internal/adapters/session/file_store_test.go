package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := &core.Session{
		UserID:      "user-1",
		Email:       "alex@example.com",
		DisplayName: "Alex",
		AccessToken: "token-abc",
		ExpiresAt:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("load returned nil for a saved session")
	}
	if *loaded != *saved {
		t.Errorf("round trip changed the session:\n got %+v\nwant %+v", loaded, saved)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if loaded != nil {
		t.Errorf("missing file should yield a nil session, got %+v", loaded)
	}
}

func TestFileStoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"version": 2, "session": {"user_id": "u"}}`), 0600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Error("expected error for unsupported version, got nil")
	}
}

func TestFileStorePermissions(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(&core.Session{UserID: "u"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}
}

func TestFileStoreClear(t *testing.T) {
	store := newTestStore(t)

	// Clearing before anything was saved is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("clear of missing file failed: %v", err)
	}

	if err := store.Save(&core.Session{UserID: "u"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil || loaded != nil {
		t.Errorf("session survived clear: %+v, %v", loaded, err)
	}
}
