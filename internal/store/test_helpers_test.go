package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/stalk/internal/event"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record at a fixed location.
func createTestRecord(actor string, kind event.ActionKind, ts int64) event.Record {
	return event.Record{
		Timestamp: ts,
		ActorName: actor,
		ActorID:   event.OfflineActorID(actor),
		Kind:      kind,
		Detail:    "detail for " + actor,
		Location:  &event.Location{World: "world", X: 1, Y: 64, Z: -2},
	}
}
