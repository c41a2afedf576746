package testsupport

import (
	"testing"

	"clippair/internal/config"
	"clippair/internal/runlog"
)

// MustOpenRunLog opens a runlog.Store for tests and registers cleanup.
func MustOpenRunLog(t testing.TB, cfg *config.Config) *runlog.Store {
	t.Helper()

	store, err := runlog.Open(cfg)
	if err != nil {
		t.Fatalf("runlog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
