package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Migrate makes sure every collection and its unique indexes exist. It runs
// once, right after the connection is established.
func (s *Store) Migrate(ctx context.Context, d Driver) error {
	for _, def := range s.defs {
		slog.Debug("Ensuring collection", "collection", def.Name, "unique", def.Unique)
		if err := d.EnsureCollection(ctx, def); err != nil {
			return fmt.Errorf("failed to migrate collection %s: %w", def.Name, err)
		}
	}
	return nil
}
