package handlers

import (
	"net/http"
)

const messagesPath = "/studio-admin/messages"

func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Actions.Messages.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_messages.html", map[string]any{
		"Title":    "Messages",
		"Messages": messages,
		"Flashes":  h.flashes(w, r, adminSession),
	})
}

// ShowMessage displays a message and marks it read.
func (h *AdminHandler) ShowMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Actions.Messages.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if msg == nil {
		http.NotFound(w, r)
		return
	}
	if msg, err = h.Actions.Messages.MarkAsRead(r.Context(), msg.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_message.html", map[string]any{
		"Title":   "Message from " + msg.Name,
		"Message": msg,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) MarkMessageReplied(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Actions.Messages.MarkAsReplied(r.Context(), id); err != nil {
		h.fail(w, r, adminSession, err, messagesPath)
		return
	}
	h.succeed(w, r, adminSession, "Message marked as replied.", messagesPath+"/"+id)
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Messages.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, messagesPath)
		return
	}
	h.succeed(w, r, adminSession, "Message deleted.", messagesPath)
}
