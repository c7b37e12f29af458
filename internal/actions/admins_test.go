package actions_test

import (
	"testing"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmins_Create(t *testing.T) {
	f := newFixture(t)

	admin, err := f.acts.Admins.Create(ctx(), actions.CreateAdminInput{
		Name:     "Nadia",
		Email:    "  Nadia@Example.com ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "nadia@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "correct horse", admin.PasswordHash)
	assert.Contains(t, f.cache.paths, "/studio-admin/admins")
}

func TestAdmins_CreateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	in := actions.CreateAdminInput{Name: "Nadia", Email: "nadia@example.com", Password: "correct horse"}

	_, err := f.acts.Admins.Create(ctx(), in)
	require.NoError(t, err)

	in.Email = "NADIA@example.com"
	_, err = f.acts.Admins.Create(ctx(), in)
	requireConflict(t, err, "email")

	n, err := f.db.Admins.Count(ctx(), "", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAdmins_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		in     actions.CreateAdminInput
		fields []string
	}{
		{
			name:   "all missing",
			in:     actions.CreateAdminInput{},
			fields: []string{"name", "email", "password"},
		},
		{
			name:   "bad email and short password",
			in:     actions.CreateAdminInput{Name: "x", Email: "nope", Password: "short"},
			fields: []string{"email", "password"},
		},
		{
			name:   "unknown role",
			in:     actions.CreateAdminInput{Name: "x", Email: "x@example.com", Password: "long enough", Role: "root"},
			fields: []string{"role"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.acts.Admins.Create(ctx(), tt.in)
			requireValidation(t, err, tt.fields...)

			n, err := f.db.Admins.Count(ctx(), "", nil)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestAdmins_Authenticate(t *testing.T) {
	f := newFixture(t)
	created, err := f.acts.Admins.Create(ctx(), actions.CreateAdminInput{
		Name: "Nadia", Email: "nadia@example.com", Password: "correct horse", Role: models.RoleEditor,
	})
	require.NoError(t, err)

	admin, err := f.acts.Admins.Authenticate(ctx(), "NADIA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, admin.ID)
	assert.Equal(t, models.RoleEditor, admin.Role)

	for _, tc := range [][2]string{
		{"nadia@example.com", "wrong horse"},
		{"nobody@example.com", "correct horse"},
		{"", ""},
	} {
		_, err := f.acts.Admins.Authenticate(ctx(), tc[0], tc[1])
		assert.ErrorIs(t, err, models.ErrUnauthorized, tc[0])
	}
}

func TestAdmins_DeleteKeepsLastAdmin(t *testing.T) {
	f := newFixture(t)
	first, err := f.acts.Admins.Create(ctx(), actions.CreateAdminInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	second, err := f.acts.Admins.Create(ctx(), actions.CreateAdminInput{Name: "B", Email: "b@example.com", Password: "password2"})
	require.NoError(t, err)

	require.NoError(t, f.acts.Admins.Delete(ctx(), first.ID))
	err = f.acts.Admins.Delete(ctx(), second.ID)
	require.ErrorIs(t, err, models.ErrForbidden)

	got, err := f.acts.Admins.Get(ctx(), second.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Deleting an account that is already gone is fine.
	assert.NoError(t, f.acts.Admins.Delete(ctx(), first.ID))
}
