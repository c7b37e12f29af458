package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

// base carries what every handler group needs to render pages.
type base struct {
	Actions      *actions.Actions
	Templates    *TemplateCache
	SessionStore sessions.Store
}

// render executes the named template with data plus the CSRF field and
// site settings, buffering so a failed render never sends half a page.
func (b *base) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	tmpl := b.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["CsrfField"] = csrf.TemplateField(r)
	if _, ok := data["Settings"]; !ok {
		settings, err := b.Actions.Settings.Get(r.Context())
		if err != nil {
			b.serverError(w, r, err)
			return
		}
		data["Settings"] = settings
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Failed to render template", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// flashes pops the flash messages of the named session.
func (b *base) flashes(w http.ResponseWriter, r *http.Request, name string) []FlashMessage {
	session, _ := b.SessionStore.Get(r, name)
	messages := GetFlash(session)
	if len(messages) > 0 {
		session.Save(r, w)
	}
	return messages
}

func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// succeed flashes msg and redirects to the given path.
func (b *base) succeed(w http.ResponseWriter, r *http.Request, session, msg, to string) {
	s, _ := b.SessionStore.Get(r, session)
	s.AddFlash(FlashMessage{Type: "success", Message: msg})
	s.Save(r, w)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// fail turns an action error into flash messages and redirects back.
func (b *base) fail(w http.ResponseWriter, r *http.Request, session string, err error, back string) {
	s, _ := b.SessionStore.Get(r, session)
	for _, msg := range errorMessages(err) {
		s.AddFlash(FlashMessage{Type: "error", Message: msg})
	}
	if !isUserError(err) {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.Save(r, w)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func isUserError(err error) bool {
	return errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrConflict) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrForbidden) ||
		errors.Is(err, models.ErrUnauthorized)
}

func errorMessages(err error) []string {
	var verr *models.ValidationError
	var cerr *models.ConflictError
	switch {
	case errors.As(err, &verr):
		msgs := make([]string, 0, len(verr.Errors))
		for _, fe := range verr.Errors {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs
	case errors.As(err, &cerr):
		return []string{fmt.Sprintf("The %s %q is already taken.", cerr.Field, cerr.Value)}
	case errors.Is(err, models.ErrNotFound):
		return []string{"That record no longer exists."}
	case errors.Is(err, models.ErrForbidden):
		return []string{"You are not allowed to do that: " + strings.TrimPrefix(err.Error(), models.ErrForbidden.Error()+": ")}
	}
	return []string{"Something went wrong. Please try again."}
}

// fieldMessage turns {"email", "required"} into "Email is required."
func fieldMessage(fe models.FieldError) string {
	label := fe.Field
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	if fe.Message == "required" {
		return label + " is required."
	}
	return label + " " + fe.Message + "."
}
