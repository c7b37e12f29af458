package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

const adminsPath = "/studio-admin/admins"

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Actions.Admins.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_admins.html", map[string]any{
		"Title":   "Admins",
		"Admins":  admins,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) NewAdminForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_admin_form.html", map[string]any{
		"Title":   "New admin",
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	_, err := h.Actions.Admins.Create(r.Context(), actions.CreateAdminInput{
		Name:     formString(r, "name"),
		Email:    formString(r, "email"),
		Password: r.FormValue("password"),
		Role:     models.Role(r.FormValue("role")),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, adminsPath+"/new")
		return
	}
	h.succeed(w, r, adminSession, "Admin created.", adminsPath)
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Admins.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, adminsPath)
		return
	}
	h.succeed(w, r, adminSession, "Admin deleted.", adminsPath)
}
