// Package handler exposes the shopping list over a JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/shoplist/internal/application/mirror"
	"github.com/rezkam/shoplist/internal/application/shopping"
	"github.com/rezkam/shoplist/internal/grouping"
	"github.com/rezkam/shoplist/internal/settings"
)

// Handler adapts HTTP requests to application service calls.
type Handler struct {
	shopping *shopping.Service
	mirror   *mirror.Adapter
	settings *settings.Store
	collapse *grouping.CollapseState
}

// New creates a new HTTP API handler.
func New(svc *shopping.Service, adapter *mirror.Adapter, prefs *settings.Store, collapse *grouping.CollapseState) *Handler {
	if collapse == nil {
		collapse = grouping.NewCollapseState()
	}
	return &Handler{
		shopping: svc,
		mirror:   adapter,
		settings: prefs,
		collapse: collapse,
	}
}

// Routes returns the API router. It is mounted under /api/v1.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Delete("/items", h.ClearItems)
	r.Post("/items:clear-checked", h.ClearChecked)
	r.Patch("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)

	r.Get("/categories", h.ListCategories)
	r.Post("/categories/{key}:toggle-collapse", h.ToggleCollapse)

	r.Post("/complete", h.CompleteList)

	r.Get("/history", h.ListHistory)
	r.Delete("/history", h.ClearHistory)
	r.Get("/history/{id}", h.GetHistory)
	r.Delete("/history/{id}", h.DeleteHistory)

	r.Get("/saved-lists", h.ListSavedLists)
	r.Post("/saved-lists", h.CreateSavedList)
	r.Get("/saved-lists/{id}", h.GetSavedList)
	r.Delete("/saved-lists/{id}", h.DeleteSavedList)
	r.Post("/saved-lists/{id}:load", h.LoadSavedList)

	r.Get("/settings", h.GetSettings)
	r.Patch("/settings", h.UpdateSettings)

	r.Get("/sync", h.SyncStatus)
	r.Post("/sync:refresh", h.RefreshSync)

	return r
}

// decodeJSON decodes the request body into v.
// An empty body is accepted when optional is true.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
