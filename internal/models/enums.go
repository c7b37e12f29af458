package models

// Role is the permission level of an admin account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// ContactStatus tracks how far an operator has handled a contact message.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) String() string { return string(s) }

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// BillingPeriod is how often a pricing plan is charged.
type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
	PeriodOneTime BillingPeriod = "one-time"
)

func (p BillingPeriod) String() string { return string(p) }

func (p BillingPeriod) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodYearly, PeriodOneTime:
		return true
	}
	return false
}

// DefaultCurrency is used when an order or plan names none.
const DefaultCurrency = "USD"
