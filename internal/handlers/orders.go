package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
)

// OrderHandler serves the public forms: contact, plan orders and the
// order status lookup.
type OrderHandler struct {
	base
}

func (h *OrderHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Actions.Pricing.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if plan == nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "order.html", map[string]any{
		"Title":   "Order " + plan.Name,
		"Plan":    plan,
		"Flashes": h.flashes(w, r, publicSession),
	})
}

func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	planID := r.PathValue("id")
	back := "/pricing/" + planID + "/order"
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, publicSession, err, back)
		return
	}

	order, err := h.Actions.Orders.Create(r.Context(), actions.CreateOrderInput{
		Name:    formString(r, "name"),
		Email:   formString(r, "email"),
		Phone:   formString(r, "phone"),
		Message: formString(r, "message"),
		PlanID:  planID,
	})
	if err != nil {
		h.fail(w, r, publicSession, err, back)
		return
	}
	http.Redirect(w, r, "/order/thanks/"+order.OrderNumber, http.StatusSeeOther)
}

func (h *OrderHandler) Thanks(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "order_thanks.html", map[string]any{
		"Title":       "Thank you",
		"OrderNumber": r.PathValue("orderNumber"),
	})
}

func (h *OrderHandler) StatusForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "order_status.html", map[string]any{
		"Title":   "Order status",
		"Flashes": h.flashes(w, r, publicSession),
	})
}

// StatusLookup shows the order only when both its number and the email it
// was placed with match.
func (h *OrderHandler) StatusLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, publicSession, err, "/order-status")
		return
	}
	order, err := h.Actions.Orders.Lookup(r.Context(), formString(r, "order_number"), formString(r, "email"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := map[string]any{
		"Title":    "Order status",
		"Order":    order,
		"Searched": true,
	}
	if order == nil {
		data["Flashes"] = []FlashMessage{{Type: "error", Message: "No order matches that number and email."}}
	}
	h.render(w, r, "order_status.html", data)
}
