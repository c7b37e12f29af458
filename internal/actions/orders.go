package actions

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

type Orders struct {
	db    *store.Store
	cache Revalidator
}

// CreateOrderInput is a visitor's inquiry for a pricing plan.
type CreateOrderInput struct {
	Name    string
	Email   string
	Phone   string
	Message string // optional
	PlanID  string
}

func (i CreateOrderInput) Validate() error {
	var errs fieldErrors
	errs.required("name", i.Name)
	if errs.required("email", i.Email) && !isValidEmail(strings.TrimSpace(i.Email)) {
		errs.add("email", "invalid email address")
	}
	errs.required("phone", i.Phone)
	errs.required("planId", i.PlanID)
	return errs.err()
}

// orderNumberCharset leaves out I, O, 1 and 0 to avoid confusion when read aloud.
const orderNumberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateOrderNumber() string {
	b := make([]byte, 8)
	rand.Read(b)
	for i := range b {
		b[i] = orderNumberCharset[int(b[i])%len(orderNumberCharset)]
	}
	return string(b)
}

// Create records an order for the referenced plan, snapshotting its name,
// price and currency.
func (o *Orders) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	plan, err := o.db.Pricing.Get(ctx, strings.TrimSpace(in.PlanID))
	if err != nil {
		return nil, fmt.Errorf("lookup plan: %w", err)
	}
	if plan == nil {
		return nil, models.NewValidationError("planId", "unknown plan")
	}

	price := plan.Price
	currency := plan.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	order := &models.Order{
		OrderNumber: generateOrderNumber(),
		Name:        strings.TrimSpace(in.Name),
		Email:       normalizeEmail(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Message:     strings.TrimSpace(in.Message),
		Plan:        plan.Name,
		PlanID:      plan.ID,
		Price:       &price,
		Currency:    currency,
		Status:      models.OrderStatusPending,
	}
	if err := o.db.Orders.Insert(ctx, order); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &models.ConflictError{Field: "orderNumber", Value: order.OrderNumber}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Confirmation mail is not wired yet; the log line carries what it would say.
	slog.Info("Order received",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"plan", order.Plan,
		"notify", order.Email,
	)
	o.revalidate()
	return order, nil
}

func (o *Orders) List(ctx context.Context) ([]models.Order, error) {
	return o.db.Orders.List(ctx)
}

// Page returns one page of orders (1-based) and the number of pages.
func (o *Orders) Page(ctx context.Context, page, limit int) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	orders, total, err := o.db.GetOrdersPage(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	return orders, pages, nil
}

func (o *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	return o.db.Orders.Get(ctx, id)
}

// Lookup finds an order by its public number for the visitor who placed it.
// The email must match, ignoring case; otherwise nil is returned.
func (o *Orders) Lookup(ctx context.Context, orderNumber, email string) (*models.Order, error) {
	number := strings.ToUpper(strings.TrimSpace(orderNumber))
	if number == "" || strings.TrimSpace(email) == "" {
		return nil, nil
	}
	order, err := o.db.GetOrderByNumber(ctx, number)
	if err != nil || order == nil {
		return nil, err
	}
	if !strings.EqualFold(order.Email, strings.TrimSpace(email)) {
		return nil, nil
	}
	return order, nil
}

// UpdateStatus changes only the status of an order. Setting the status it
// already has is a no-op and leaves updatedAt untouched.
func (o *Orders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, models.NewValidationError("status", "must be pending, confirmed, completed or cancelled")
	}
	order, err := o.db.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, models.ErrNotFound
	}
	if order.Status == status {
		return order, nil
	}

	order.Status = status
	if err := o.db.Orders.Replace(ctx, order); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	slog.Info("Order status updated", "order_id", id, "status", status)
	o.revalidate()
	return order, nil
}

func (o *Orders) Delete(ctx context.Context, id string) error {
	if err := o.db.Orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	slog.Info("Order deleted", "order_id", id)
	o.revalidate()
	return nil
}

func (o *Orders) revalidate() {
	o.cache.Revalidate(studioPath("orders"), auth.DashboardPath)
}
