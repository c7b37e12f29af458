package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

// Messages handles inquiries sent through the public contact form.
type Messages struct {
	db    *store.Store
	cache Revalidator
}

type CreateMessageInput struct {
	Name    string
	Email   string
	Phone   string // optional
	Message string
}

func (i CreateMessageInput) Validate() error {
	var errs fieldErrors
	errs.required("name", i.Name)
	if errs.required("email", i.Email) && !isValidEmail(strings.TrimSpace(i.Email)) {
		errs.add("email", "invalid email address")
	}
	errs.required("message", i.Message)
	return errs.err()
}

func (m *Messages) Create(ctx context.Context, in CreateMessageInput) (*models.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	msg := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
		Status:  models.ContactStatusNew,
	}
	if err := m.db.Contacts.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	slog.Info("Contact message received", "message_id", msg.ID)
	m.revalidate()
	return msg, nil
}

// List returns every message, newest first.
func (m *Messages) List(ctx context.Context) ([]models.Contact, error) {
	return m.db.Contacts.List(ctx)
}

// Get returns the message or nil when it does not exist.
func (m *Messages) Get(ctx context.Context, id string) (*models.Contact, error) {
	return m.db.Contacts.Get(ctx, id)
}

// MarkAsRead flags a new message as read. Messages already read or
// replied to are returned unchanged.
func (m *Messages) MarkAsRead(ctx context.Context, id string) (*models.Contact, error) {
	return m.advance(ctx, id, models.ContactStatusRead)
}

// MarkAsReplied records that the operator answered the message.
func (m *Messages) MarkAsReplied(ctx context.Context, id string) (*models.Contact, error) {
	return m.advance(ctx, id, models.ContactStatusReplied)
}

var contactRank = map[models.ContactStatus]int{
	models.ContactStatusNew:     0,
	models.ContactStatusRead:    1,
	models.ContactStatusReplied: 2,
}

// advance moves a message forward to status; it never moves it back.
func (m *Messages) advance(ctx context.Context, id string, status models.ContactStatus) (*models.Contact, error) {
	msg, err := m.db.Contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, models.ErrNotFound
	}
	if contactRank[msg.Status] >= contactRank[status] {
		return msg, nil
	}

	msg.Status = status
	if err := m.db.Contacts.Replace(ctx, msg); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	slog.Info("Contact message status changed", "message_id", id, "status", status)
	m.revalidate()
	return msg, nil
}

// Delete removes the message; deleting a missing message is a no-op.
func (m *Messages) Delete(ctx context.Context, id string) error {
	if err := m.db.Contacts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	slog.Info("Contact message deleted", "message_id", id)
	m.revalidate()
	return nil
}

func (m *Messages) revalidate() {
	m.cache.Revalidate(studioPath("messages"), auth.DashboardPath)
}
