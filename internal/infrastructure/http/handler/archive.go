package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/infrastructure/http/response"
)

// ListHistory returns completed trips, most recent first.
// GET /history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	response.OK(w, historyListResponse{History: h.mirror.ListHistory(r.Context())})
}

// GetHistory returns one history record.
// GET /history/{id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, record := range h.mirror.ListHistory(r.Context()) {
		if record.ID == id {
			response.OK(w, record)
			return
		}
	}
	response.FromDomainError(w, r, domain.ErrNotFound)
}

// DeleteHistory removes one history record. Unknown ids succeed.
// DELETE /history/{id}
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.mirror.DeleteHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ClearHistory removes every history record.
// DELETE /history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.mirror.ClearHistory(r.Context()); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ListSavedLists returns the saved templates, newest first.
// GET /saved-lists
func (h *Handler) ListSavedLists(w http.ResponseWriter, r *http.Request) {
	response.OK(w, savedListsResponse{SavedLists: h.mirror.ListSavedLists(r.Context())})
}

// CreateSavedList saves the active list as a named template.
// POST /saved-lists
func (h *Handler) CreateSavedList(w http.ResponseWriter, r *http.Request) {
	var req createSavedListRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	list, err := h.shopping.SaveAsTemplate(r.Context(), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, list)
}

// GetSavedList returns one saved template.
// GET /saved-lists/{id}
func (h *Handler) GetSavedList(w http.ResponseWriter, r *http.Request) {
	list, err := h.mirror.GetSavedList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, list)
}

// DeleteSavedList removes one saved template. Unknown ids succeed.
// DELETE /saved-lists/{id}
func (h *Handler) DeleteSavedList(w http.ResponseWriter, r *http.Request) {
	if err := h.mirror.DeleteSavedList(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// LoadSavedList appends a template's items to the active list.
// POST /saved-lists/{id}:load
func (h *Handler) LoadSavedList(w http.ResponseWriter, r *http.Request) {
	added, err := h.shopping.LoadTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, loadSavedListResponse{Items: added})
}
