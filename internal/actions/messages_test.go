package actions_test

import (
	"testing"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMessage(t *testing.T, f *fixture) *models.Contact {
	t.Helper()
	msg, err := f.acts.Messages.Create(ctx(), actions.CreateMessageInput{
		Name:    "Omar",
		Email:   "omar@example.com",
		Message: "We need a new website.",
	})
	require.NoError(t, err)
	return msg
}

func TestMessages_Create(t *testing.T) {
	f := newFixture(t)

	msg := createMessage(t, f)
	assert.Equal(t, models.ContactStatusNew, msg.Status)
	assert.ElementsMatch(t, []string{"/studio-admin/messages", "/dashboard"}, f.cache.paths)

	_, err := f.acts.Messages.Create(ctx(), actions.CreateMessageInput{Email: "bad"})
	requireValidation(t, err, "name", "email", "message")
}

func TestMessages_MarkAsReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	msg := createMessage(t, f)

	read, err := f.acts.Messages.MarkAsRead(ctx(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, read.Status)

	again, err := f.acts.Messages.MarkAsRead(ctx(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, again.Status)
	assert.Equal(t, read.UpdatedAt, again.UpdatedAt)

	got, err := f.acts.Messages.Get(ctx(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, got.Status)
}

func TestMessages_RepliedIsNotDowngraded(t *testing.T) {
	f := newFixture(t)
	msg := createMessage(t, f)

	_, err := f.acts.Messages.MarkAsReplied(ctx(), msg.ID)
	require.NoError(t, err)
	got, err := f.acts.Messages.MarkAsRead(ctx(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusReplied, got.Status)
}

func TestMessages_MarkAsReadMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.acts.Messages.MarkAsRead(ctx(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMessages_DeleteTwice(t *testing.T) {
	f := newFixture(t)
	keep := createMessage(t, f)
	gone := createMessage(t, f)

	require.NoError(t, f.acts.Messages.Delete(ctx(), gone.ID))
	require.NoError(t, f.acts.Messages.Delete(ctx(), gone.ID))

	list, err := f.acts.Messages.List(ctx())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}
