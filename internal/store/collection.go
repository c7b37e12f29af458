package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medghazouan/bidayalab/internal/models"
)

// Collection is a typed view over one named collection. P is the pointer
// type of T, which must embed models.Meta.
type Collection[T any, P interface {
	*T
	Document
}] struct {
	store *Store
	def   Definition
}

func newCollection[T any, P interface {
	*T
	Document
}](s *Store, def Definition) *Collection[T, P] {
	s.defs = append(s.defs, def)
	return &Collection[T, P]{store: s, def: def}
}

func (c *Collection[T, P]) Name() string { return c.def.Name }

// List returns every document, newest first.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := d.List(ctx, c.def.Name, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get returns the document with the given id, or nil if there is none.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (P, error) {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return nil, err
	}
	var v T
	if err := d.Get(ctx, c.def.Name, id, &v); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return P(&v), nil
}

// FindOne returns the newest document whose field equals value, or nil.
func (c *Collection[T, P]) FindOne(ctx context.Context, field string, value any) (P, error) {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return nil, err
	}
	var v T
	if err := d.FindOne(ctx, c.def.Name, field, value, &v); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return P(&v), nil
}

// Insert stamps id and timestamps on doc and persists it. A doc that
// already has an id keeps it.
func (c *Collection[T, P]) Insert(ctx context.Context, doc P) error {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return err
	}
	m := doc.DocMeta()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := c.store.timestamp()
	m.CreatedAt, m.UpdatedAt = now, now
	return d.Insert(ctx, c.def.Name, doc)
}

// Replace overwrites the stored document with doc and advances UpdatedAt.
// It returns models.ErrNotFound if the document does not exist.
func (c *Collection[T, P]) Replace(ctx context.Context, doc P) error {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return err
	}
	m := doc.DocMeta()
	prev := m.UpdatedAt
	now := c.store.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	m.UpdatedAt = now
	if err := d.Replace(ctx, c.def.Name, doc); err != nil {
		m.UpdatedAt = prev
		return err
	}
	return nil
}

// Delete removes the document. Deleting a missing id is not an error.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return err
	}
	return d.Delete(ctx, c.def.Name, id)
}

// Count counts documents whose field equals value; an empty field counts all.
func (c *Collection[T, P]) Count(ctx context.Context, field string, value any) (int64, error) {
	d, err := c.store.acc.Driver(ctx)
	if err != nil {
		return 0, err
	}
	return d.Count(ctx, c.def.Name, field, value)
}
