package store

import (
	"context"
	"errors"

	"github.com/medghazouan/bidayalab/internal/models"
)

// ErrDuplicate is returned by a Driver when a write violates a unique key.
var ErrDuplicate = errors.New("duplicate key")

// Document is any record the store can persist.
type Document interface {
	DocMeta() *models.Meta
}

// Driver is one live connection to a document database. Reads decode into
// out, which must be a pointer; List decodes into a pointer to a slice,
// newest document first. Documents created in the same millisecond are
// ordered by id, descending, so every driver returns the same order.
//
// FindOne returns the first match in List order. Get and FindOne return
// models.ErrNotFound when nothing matches.
type Driver interface {
	EnsureCollection(ctx context.Context, def Definition) error
	Insert(ctx context.Context, coll string, doc Document) error
	Replace(ctx context.Context, coll string, doc Document) error
	Delete(ctx context.Context, coll, id string) error
	Get(ctx context.Context, coll, id string, out any) error
	FindOne(ctx context.Context, coll, field string, value any, out any) error
	List(ctx context.Context, coll string, out any) error
	Count(ctx context.Context, coll, field string, value any) (int64, error)
	Close(ctx context.Context) error
}

// Definition describes a collection and the fields that must be unique in it.
type Definition struct {
	Name   string
	Unique []string
}
