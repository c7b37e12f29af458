package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/models"
)

// AdminHandler serves the sign-in page and everything behind the gate.
type AdminHandler struct {
	base
	Uploads *Uploader
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]any{
		"Title":   "Sign in",
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)

	admin, err := h.Actions.Admins.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		msg := "Invalid email or password"
		if !errors.Is(err, models.ErrUnauthorized) {
			slog.Error("Login failed", "error", err)
			msg = "Internal Server Error"
		}
		session.AddFlash(FlashMessage{Type: "error", Message: msg})
		session.Save(r, w)
		http.Redirect(w, r, auth.SignInPath, http.StatusSeeOther)
		return
	}

	session.Values["authenticated"] = true
	session.Values["admin_id"] = admin.ID
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + admin.Name + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "admin_id", admin.ID)
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, auth.SignInPath, http.StatusSeeOther)
}

// currentAdmin loads the signed-in account. It returns nil if the account
// was deleted since sign-in.
func (h *AdminHandler) currentAdmin(r *http.Request) (*models.Admin, error) {
	session, _ := h.SessionStore.Get(r, adminSession)
	id, _ := session.Values["admin_id"].(string)
	if id == "" {
		return nil, nil
	}
	return h.Actions.Admins.Get(r.Context(), id)
}

// RequireRole lets only accounts with the given role through.
func (h *AdminHandler) RequireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.currentAdmin(r)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		if admin == nil {
			h.Logout(w, r)
			return
		}
		if admin.Role != role {
			slog.Warn("Role check failed", "admin_id", admin.ID, "role", admin.Role, "path", r.URL.Path)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Actions.Dashboard.Stats(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	admin, err := h.currentAdmin(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "dashboard.html", map[string]any{
		"Title":   "Dashboard",
		"Stats":   stats,
		"Admin":   admin,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) StudioIndex(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Actions.Dashboard.Stats(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "studio.html", map[string]any{
		"Title":   "Studio",
		"Stats":   stats,
		"Flashes": h.flashes(w, r, adminSession),
	})
}
