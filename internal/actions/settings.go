package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

// Settings manages the site-wide settings singleton.
type Settings struct {
	db    *store.Store
	cache Revalidator
}

// Get returns the stored settings, or the defaults if none were saved yet.
func (s *Settings) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.db.Settings.Get(ctx, models.SettingsID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.Settings{Meta: models.Meta{ID: models.SettingsID}}, nil
	}
	return settings, nil
}

// UpdateSettingsInput holds the changed settings; nil fields are left alone.
// An empty string clears a link.
type UpdateSettingsInput struct {
	Instagram *string
	LinkedIn  *string
}

func (i UpdateSettingsInput) Validate() error {
	var errs fieldErrors
	if i.Instagram != nil && *i.Instagram != "" && !isValidURL(strings.TrimSpace(*i.Instagram)) {
		errs.add("instagram", "must be an http(s) URL")
	}
	if i.LinkedIn != nil && *i.LinkedIn != "" && !isValidURL(strings.TrimSpace(*i.LinkedIn)) {
		errs.add("linkedin", "must be an http(s) URL")
	}
	return errs.err()
}

// apply copies the non-nil fields onto settings.
func (i UpdateSettingsInput) apply(settings *models.Settings) {
	if i.Instagram != nil {
		settings.Instagram = strings.TrimSpace(*i.Instagram)
	}
	if i.LinkedIn != nil {
		settings.LinkedIn = strings.TrimSpace(*i.LinkedIn)
	}
}

func (s *Settings) Update(ctx context.Context, in UpdateSettingsInput) (*models.Settings, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	settings, err := s.db.Settings.Get(ctx, models.SettingsID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings, err = s.create(ctx, in)
	} else {
		in.apply(settings)
		err = s.db.Settings.Replace(ctx, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	slog.Info("Settings updated")
	// Social links render in the footer of every page.
	s.cache.RevalidateAll()
	return settings, nil
}

// create inserts the singleton. When another request created it first, the
// changes are applied on top of the stored record instead.
func (s *Settings) create(ctx context.Context, in UpdateSettingsInput) (*models.Settings, error) {
	settings := &models.Settings{Meta: models.Meta{ID: models.SettingsID}}
	in.apply(settings)
	err := s.db.Settings.Insert(ctx, settings)
	if !errors.Is(err, store.ErrDuplicate) {
		return settings, err
	}

	stored, err := s.db.Settings.Get(ctx, models.SettingsID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("settings vanished after duplicate insert: %w", models.ErrNotFound)
	}
	in.apply(stored)
	if err := s.db.Settings.Replace(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}
