// Package testutil provides shared test helpers for stores and clocks.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/selections"
)

// TestStore creates a temporary SQLite selections store that is automatically cleaned up.
func TestStore(t *testing.T) *selections.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "calpick-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := selections.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// Clock returns a fixed clock at noon UTC on the given day.
func Clock(year int, month time.Month, day int) calendar.Clock {
	return calendar.FixedClock(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}
