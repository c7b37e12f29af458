package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
)

func (h *OrderHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "contact.html", map[string]any{
		"Title":   "Contact",
		"Flashes": h.flashes(w, r, publicSession),
	})
}

func (h *OrderHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, publicSession, err, "/contact")
		return
	}
	_, err := h.Actions.Messages.Create(r.Context(), actions.CreateMessageInput{
		Name:    formString(r, "name"),
		Email:   formString(r, "email"),
		Phone:   formString(r, "phone"),
		Message: formString(r, "message"),
	})
	if err != nil {
		h.fail(w, r, publicSession, err, "/contact")
		return
	}
	h.succeed(w, r, publicSession, "Thanks for reaching out! We will get back to you shortly.", "/contact")
}
