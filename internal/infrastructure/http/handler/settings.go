package handler

import (
	"net/http"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/infrastructure/http/response"
	"github.com/rezkam/shoplist/internal/settings"
)

// GetSettings returns the current preferences.
// GET /settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.settings.Current())
}

// UpdateSettings changes the fields present in the body.
// PATCH /settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	updated, err := h.settings.Update(r.Context(), func(s settings.Settings) settings.Settings {
		if req.Language != nil {
			s.Language = domain.Language(*req.Language)
		}
		if req.SoundEnabled != nil {
			s.SoundEnabled = *req.SoundEnabled
		}
		return s
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, updated)
}

// SyncStatus reports whether the remote mirror is active.
// GET /sync
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	response.OK(w, syncStatusResponse{
		Status:  string(h.mirror.Status()),
		Pending: h.mirror.Pending(),
	})
}

// RefreshSync merges the remote snapshot into the local cache.
// POST /sync:refresh
func (h *Handler) RefreshSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.mirror.Refresh(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	response.OK(w, result)
}
