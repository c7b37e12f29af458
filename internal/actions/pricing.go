package actions

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

// Pricing manages the plans listed on the home page.
type Pricing struct {
	db    *store.Store
	cache Revalidator
}

type PricingInput struct {
	Name        string
	Price       float64
	Currency    string
	Period      models.BillingPeriod
	Description string
	Features    []string
	Highlighted bool
}

type UpdatePricingInput struct {
	Name        *string
	Price       *float64
	Currency    *string
	Period      *models.BillingPeriod
	Description *string
	Features    *[]string
	Highlighted *bool
}

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

func validatePlan(plan *models.Pricing) error {
	var errs fieldErrors
	errs.required("name", plan.Name)
	switch {
	case math.IsNaN(plan.Price) || math.IsInf(plan.Price, 0):
		errs.add("price", "must be a number")
	case plan.Price < 0:
		errs.add("price", "must not be negative")
	}
	if !currencyRegex.MatchString(plan.Currency) {
		errs.add("currency", "must be a three-letter currency code")
	}
	if !plan.Period.IsValid() {
		errs.add("period", "must be monthly, yearly or one-time")
	}
	return errs.err()
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return models.DefaultCurrency
	}
	return c
}

func (p *Pricing) Create(ctx context.Context, in PricingInput) (*models.Pricing, error) {
	plan := &models.Pricing{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Currency:    normalizeCurrency(in.Currency),
		Period:      in.Period,
		Description: strings.TrimSpace(in.Description),
		Features:    cleanList(in.Features),
		Highlighted: in.Highlighted,
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if err := p.db.Pricing.Insert(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	slog.Info("Pricing plan created", "plan_id", plan.ID, "name", plan.Name)
	p.revalidate()
	return plan, nil
}

func (p *Pricing) Update(ctx context.Context, id string, in UpdatePricingInput) (*models.Pricing, error) {
	plan, err := p.db.Pricing.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, models.ErrNotFound
	}
	if in.Name != nil {
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		plan.Price = *in.Price
	}
	if in.Currency != nil {
		plan.Currency = normalizeCurrency(*in.Currency)
	}
	if in.Period != nil {
		plan.Period = *in.Period
	}
	if in.Description != nil {
		plan.Description = strings.TrimSpace(*in.Description)
	}
	if in.Features != nil {
		plan.Features = cleanList(*in.Features)
	}
	if in.Highlighted != nil {
		plan.Highlighted = *in.Highlighted
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if err := p.db.Pricing.Replace(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	slog.Info("Pricing plan updated", "plan_id", plan.ID)
	p.revalidate()
	return plan, nil
}

func (p *Pricing) List(ctx context.Context) ([]models.Pricing, error) {
	return p.db.Pricing.List(ctx)
}

func (p *Pricing) Get(ctx context.Context, id string) (*models.Pricing, error) {
	return p.db.Pricing.Get(ctx, id)
}

// Delete removes a plan. Orders keep the plan name and price they were
// placed with.
func (p *Pricing) Delete(ctx context.Context, id string) error {
	if err := p.db.Pricing.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	slog.Info("Pricing plan deleted", "plan_id", id)
	p.revalidate()
	return nil
}

func (p *Pricing) revalidate() {
	p.cache.Revalidate(PathHome, studioPath("pricing"))
}
