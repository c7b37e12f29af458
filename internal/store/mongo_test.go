package store_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
	"github.com/medghazouan/bidayalab/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// newMongoStore runs against a throwaway database on MONGODB_TEST_URI.
func newMongoStore(t *testing.T) *store.Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	database := "bidayalab_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")

	s := store.NewStore(store.MongoOpener(uri, database))
	s.SetClock(storetest.NewClock().Now)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if client, err := mongo.Connect(options.Client().ApplyURI(uri)); err == nil {
			_ = client.Database(database).Drop(ctx)
			_ = client.Disconnect(ctx)
		}
		_ = s.Close(ctx)
	})
	return s
}

func TestMongo_DocumentContract(t *testing.T) {
	s := newMongoStore(t)
	ctx := context.Background()

	first := &models.Project{Title: "One", Slug: "one", Technologies: []string{"go"}}
	second := &models.Project{Title: "Two", Slug: "two"}
	require.NoError(t, s.Projects.Insert(ctx, first))
	require.NoError(t, s.Projects.Insert(ctx, second))

	got, err := s.Projects.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.Technologies, got.Technologies)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	missing, err := s.Projects.Get(ctx, "not-an-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := s.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Two", list[0].Title)

	err = s.Projects.Insert(ctx, &models.Project{Title: "Dup", Slug: "one"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got.Title = "Uno"
	require.NoError(t, s.Projects.Replace(ctx, got))
	bySlug, err := s.Projects.FindOne(ctx, "slug", "one")
	require.NoError(t, err)
	assert.Equal(t, "Uno", bySlug.Title)
	assert.True(t, bySlug.UpdatedAt.After(bySlug.CreatedAt))

	n, err := s.Projects.Count(ctx, "", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.Projects.Delete(ctx, first.ID))
	require.NoError(t, s.Projects.Delete(ctx, first.ID))
	assert.ErrorIs(t, s.Projects.Replace(ctx, got), models.ErrNotFound)
}

func TestMongo_SameMillisecondOrderedByID(t *testing.T) {
	s := newMongoStore(t)
	ctx := context.Background()
	frozen := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return frozen })

	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, s.Contacts.Insert(ctx, &models.Contact{
			Meta:  models.Meta{ID: id},
			Email: "same@example.com",
		}))
	}

	list, err := s.Contacts.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	first, err := s.Contacts.FindOne(ctx, "email", "same@example.com")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "c", first.ID)
}
