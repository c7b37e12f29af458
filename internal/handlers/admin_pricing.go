package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

const pricingPath = "/studio-admin/pricing"

func (h *AdminHandler) ListPricing(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Actions.Pricing.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_pricing.html", map[string]any{
		"Title":   "Pricing",
		"Plans":   plans,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) NewPricingForm(w http.ResponseWriter, r *http.Request) {
	h.pricingForm(w, r, nil)
}

func (h *AdminHandler) EditPricingForm(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Actions.Pricing.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if plan == nil {
		http.NotFound(w, r)
		return
	}
	h.pricingForm(w, r, plan)
}

func (h *AdminHandler) pricingForm(w http.ResponseWriter, r *http.Request, plan *models.Pricing) {
	title, action := "New plan", pricingPath
	if plan != nil {
		title, action = "Edit "+plan.Name, pricingPath+"/"+plan.ID
	}
	h.render(w, r, "admin_pricing_form.html", map[string]any{
		"Title":   title,
		"Action":  action,
		"Plan":    plan,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

// planPrice reads the price field; an unparsable price becomes -1 so
// validation names the field.
func planPrice(r *http.Request) float64 {
	price, ok := formFloat(r, "price")
	if !ok {
		return -1
	}
	return price
}

func (h *AdminHandler) CreatePricing(w http.ResponseWriter, r *http.Request) {
	back := pricingPath + "/new"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	_, err := h.Actions.Pricing.Create(r.Context(), actions.PricingInput{
		Name:        formString(r, "name"),
		Price:       planPrice(r),
		Currency:    formString(r, "currency"),
		Period:      models.BillingPeriod(formString(r, "period")),
		Description: formString(r, "description"),
		Features:    formLines(r, "features"),
		Highlighted: formBool(r, "highlighted"),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Plan created!", pricingPath)
}

func (h *AdminHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := pricingPath + "/" + id + "/edit"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	_, err := h.Actions.Pricing.Update(r.Context(), id, actions.UpdatePricingInput{
		Name:        ptr(formString(r, "name")),
		Price:       ptr(planPrice(r)),
		Currency:    ptr(formString(r, "currency")),
		Period:      ptr(models.BillingPeriod(formString(r, "period"))),
		Description: ptr(formString(r, "description")),
		Features:    ptr(formLines(r, "features")),
		Highlighted: ptr(formBool(r, "highlighted")),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Plan updated!", pricingPath)
}

func (h *AdminHandler) DeletePricing(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Pricing.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, pricingPath)
		return
	}
	h.succeed(w, r, adminSession, "Plan deleted.", pricingPath)
}
