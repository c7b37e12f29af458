package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

type Testimonials struct {
	db     *store.Store
	cache  Revalidator
	images imagePolicy
}

// TestimonialInput holds a new testimonial. A zero Rating means five stars.
type TestimonialInput struct {
	Name    string
	Role    string
	Company string
	Quote   string
	Avatar  string
	Rating  int
}

type UpdateTestimonialInput struct {
	Name    *string
	Role    *string
	Company *string
	Quote   *string
	Avatar  *string
	Rating  *int
}

const maxRating = 5

func (t *Testimonials) validate(tm *models.Testimonial) error {
	var errs fieldErrors
	errs.required("name", tm.Name)
	errs.required("quote", tm.Quote)
	if tm.Rating < 1 || tm.Rating > maxRating {
		errs.add("rating", "must be between 1 and 5")
	}
	t.images.check(&errs, "avatar", tm.Avatar)
	return errs.err()
}

func (t *Testimonials) Create(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	tm := &models.Testimonial{
		Name:    strings.TrimSpace(in.Name),
		Role:    strings.TrimSpace(in.Role),
		Company: strings.TrimSpace(in.Company),
		Quote:   strings.TrimSpace(in.Quote),
		Avatar:  strings.TrimSpace(in.Avatar),
		Rating:  in.Rating,
	}
	if tm.Rating == 0 {
		tm.Rating = maxRating
	}
	if err := t.validate(tm); err != nil {
		return nil, err
	}
	if err := t.db.Testimonials.Insert(ctx, tm); err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	slog.Info("Testimonial created", "testimonial_id", tm.ID)
	t.revalidate()
	return tm, nil
}

func (t *Testimonials) Update(ctx context.Context, id string, in UpdateTestimonialInput) (*models.Testimonial, error) {
	tm, err := t.db.Testimonials.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tm == nil {
		return nil, models.ErrNotFound
	}
	if in.Name != nil {
		tm.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		tm.Role = strings.TrimSpace(*in.Role)
	}
	if in.Company != nil {
		tm.Company = strings.TrimSpace(*in.Company)
	}
	if in.Quote != nil {
		tm.Quote = strings.TrimSpace(*in.Quote)
	}
	if in.Avatar != nil {
		tm.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Rating != nil {
		tm.Rating = *in.Rating
	}
	if err := t.validate(tm); err != nil {
		return nil, err
	}
	if err := t.db.Testimonials.Replace(ctx, tm); err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	slog.Info("Testimonial updated", "testimonial_id", tm.ID)
	t.revalidate()
	return tm, nil
}

func (t *Testimonials) List(ctx context.Context) ([]models.Testimonial, error) {
	return t.db.Testimonials.List(ctx)
}

func (t *Testimonials) Get(ctx context.Context, id string) (*models.Testimonial, error) {
	return t.db.Testimonials.Get(ctx, id)
}

func (t *Testimonials) Delete(ctx context.Context, id string) error {
	if err := t.db.Testimonials.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	slog.Info("Testimonial deleted", "testimonial_id", id)
	t.revalidate()
	return nil
}

func (t *Testimonials) revalidate() {
	t.cache.Revalidate(PathHome, studioPath("testimonials"))
}
