package store

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Opener establishes a new connection to the backing database.
type Opener func(ctx context.Context) (Driver, error)

// Accessor hands out the single process-wide connection, opening it on
// first use. Callers that arrive while the first attempt is in flight wait
// for that attempt instead of starting their own. A failed attempt is not
// remembered, so the next call tries again.
type Accessor struct {
	open      Opener
	onConnect func(ctx context.Context, d Driver) error

	group singleflight.Group

	mu     sync.RWMutex
	driver Driver
}

func NewAccessor(open Opener, onConnect func(ctx context.Context, d Driver) error) *Accessor {
	return &Accessor{open: open, onConnect: onConnect}
}

// Driver returns the live connection, connecting if needed.
func (a *Accessor) Driver(ctx context.Context) (Driver, error) {
	if d := a.current(); d != nil {
		return d, nil
	}

	v, err, _ := a.group.Do("connect", func() (any, error) {
		if d := a.current(); d != nil {
			return d, nil
		}

		// The attempt is shared, so one caller's cancellation must not fail the others.
		connectCtx := context.WithoutCancel(ctx)
		d, err := a.open(connectCtx)
		if err != nil {
			slog.Error("Failed to connect to document store", "error", err)
			return nil, err
		}
		if a.onConnect != nil {
			if err := a.onConnect(connectCtx, d); err != nil {
				_ = d.Close(connectCtx)
				return nil, err
			}
		}

		a.mu.Lock()
		a.driver = d
		a.mu.Unlock()
		slog.Info("Connected to document store")
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Driver), nil
}

// Close releases the connection if one was opened.
func (a *Accessor) Close(ctx context.Context) error {
	a.mu.Lock()
	d := a.driver
	a.driver = nil
	a.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.Close(ctx)
}

func (a *Accessor) current() Driver {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.driver
}
