package handlers

import (
	"net/http"
	"strconv"

	"github.com/medghazouan/bidayalab/internal/models"
)

const ordersPath = "/studio-admin/orders"

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	orders, totalPages, err := h.Actions.Orders.Page(r.Context(), page, limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "admin_orders.html", map[string]any{
		"Title":       "Orders",
		"Orders":      orders,
		"Flashes":     h.flashes(w, r, adminSession),
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	})
}

func (h *AdminHandler) ShowOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Actions.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if order == nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "admin_order.html", map[string]any{
		"Title":   "Order " + order.OrderNumber,
		"Order":   order,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := ordersPath + "/" + id
	status := models.OrderStatus(r.FormValue("status"))

	if _, err := h.Actions.Orders.UpdateStatus(r.Context(), id, status); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Order updated!", back)
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, ordersPath)
		return
	}
	h.succeed(w, r, adminSession, "Order deleted.", ordersPath)
}
