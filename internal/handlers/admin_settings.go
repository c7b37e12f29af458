package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
)

const settingsPath = "/studio-admin/settings"

func (h *AdminHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_settings.html", map[string]any{
		"Title":   "Settings",
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	_, err := h.Actions.Settings.Update(r.Context(), actions.UpdateSettingsInput{
		Instagram: ptr(formString(r, "instagram")),
		LinkedIn:  ptr(formString(r, "linkedin")),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, settingsPath)
		return
	}
	h.succeed(w, r, adminSession, "Settings saved.", settingsPath)
}
