package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

type Admins struct {
	db    *store.Store
	cache Revalidator
}

// CreateAdminInput holds the fields of a new admin account. Role is
// optional and defaults to models.RoleAdmin.
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func (i CreateAdminInput) Validate() error {
	var errs fieldErrors
	errs.required("name", i.Name)
	if errs.required("email", i.Email) && !isValidEmail(strings.TrimSpace(i.Email)) {
		errs.add("email", "invalid email address")
	}
	if i.Password == "" {
		errs.add("password", "required")
	} else if len(i.Password) < minPasswordLen {
		errs.add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	} else if len(i.Password) > maxPasswordLen {
		errs.add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLen))
	}
	if i.Role != "" && !i.Role.IsValid() {
		errs.add("role", "must be admin or editor")
	}
	return errs.err()
}

// Create registers a new admin. The email must not belong to another account.
func (a *Admins) Create(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	existing, err := a.db.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		return nil, &models.ConflictError{Field: "email", Value: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	admin := &models.Admin{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := a.db.Admins.Insert(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &models.ConflictError{Field: "email", Value: email}
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	slog.Info("Admin created", "admin_id", admin.ID, "role", admin.Role)
	a.cache.Revalidate(studioPath("admins"))
	return admin, nil
}

// Authenticate returns the admin whose credentials match, or
// models.ErrUnauthorized. It does not say which half was wrong.
func (a *Admins) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, models.ErrUnauthorized
	}
	admin, err := a.db.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if admin == nil {
		return nil, models.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrUnauthorized
	}
	return admin, nil
}

func (a *Admins) List(ctx context.Context) ([]models.Admin, error) {
	return a.db.Admins.List(ctx)
}

func (a *Admins) Get(ctx context.Context, id string) (*models.Admin, error) {
	return a.db.Admins.Get(ctx, id)
}

// Delete removes an admin account. The last account with the admin role
// cannot be removed.
func (a *Admins) Delete(ctx context.Context, id string) error {
	admin, err := a.db.Admins.Get(ctx, id)
	if err != nil {
		return err
	}
	if admin == nil {
		return nil
	}
	if admin.Role == models.RoleAdmin {
		n, err := a.db.CountAdminsWithRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if n <= 1 {
			return fmt.Errorf("%w: cannot delete the last admin", models.ErrForbidden)
		}
	}
	if err := a.db.Admins.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	slog.Info("Admin deleted", "admin_id", id)
	a.cache.Revalidate(studioPath("admins"))
	return nil
}
