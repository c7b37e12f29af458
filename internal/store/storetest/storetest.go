// Package storetest builds throwaway SQLite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/medghazouan/bidayalab/internal/store"
)

// Clock is a deterministic time source. Every call to Now advances it by Step.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), Step: time.Second}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.Step)
	return c.now
}

// Set makes the next call to Now return t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.Add(-c.Step)
}

// New returns a store on a fresh SQLite file, closed when the test ends.
func New(t testing.TB) (*store.Store, *Clock) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s := store.NewStore(store.SQLiteOpener(path))
	clock := NewClock()
	s.SetClock(clock.Now)

	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s, clock
}
