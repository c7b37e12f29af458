package actions_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
	"github.com/medghazouan/bidayalab/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder remembers every path the actions asked to revalidate.
type recorder struct {
	mu    sync.Mutex
	paths []string
	all   int
}

func (r *recorder) Revalidate(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

func (r *recorder) RevalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all++
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
	r.all = 0
}

type fixture struct {
	db    *store.Store
	clock *storetest.Clock
	cache *recorder
	acts  *actions.Actions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, clock := storetest.New(t)
	cache := &recorder{}
	return &fixture{
		db:    db,
		clock: clock,
		cache: cache,
		acts:  actions.New(db, cache, actions.Options{ImageDomains: []string{"images.unsplash.com"}}),
	}
}

func requireValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	require.ErrorIs(t, err, models.ErrValidation)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, fields, verr.Fields())
}

func requireConflict(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, models.ErrConflict)
	var cerr *models.ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, field, cerr.Field)
}

func ctx() context.Context { return context.Background() }

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Café Déjà Vu!", "cafe-deja-vu"},
		{"  --Go 1.24 release--  ", "go-1-24-release"},
		{"Ünïcödé", "unicode"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, actions.Slugify(tt.in))
		})
	}
}
