package testutil

import (
	"path/filepath"
	"testing"

	"github.com/codr1/excerpt-config/internal/store"
)

// NewTestStore creates a store whose backing file lives in a fresh temp dir.
// The file and its data directory do not exist until the first save.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data", "config.json"))
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	return s
}
