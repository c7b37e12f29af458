package store

import (
	"context"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
)

// GetAdminByEmail looks an admin up by email, case-insensitively. It
// returns nil, nil when no account matches.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.Admins.FindOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// CountAdminsWithRole is used to keep at least one full admin around.
func (s *Store) CountAdminsWithRole(ctx context.Context, role models.Role) (int64, error) {
	return s.Admins.Count(ctx, "role", string(role))
}
