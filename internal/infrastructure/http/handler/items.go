package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/grouping"
	"github.com/rezkam/shoplist/internal/infrastructure/http/response"
)

// ListItems returns the active list grouped by category.
// GET /items?lang=he|en
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	lang, err := h.language(r)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	groups, err := h.shopping.Grouped(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	completed, total := domain.ItemList(grouping.Flatten(groups)).Counts()
	response.OK(w, itemsResponse{
		Language:  lang,
		Groups:    mapGroups(groups, lang, h.collapse),
		Completed: completed,
		Total:     total,
	})
}

// CreateItem adds an item to the active list.
// POST /items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	item, err := h.shopping.Add(r.Context(), req.Text, req.Quantity, req.Unit)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "item added via HTTP", "item_id", item.ID)
	response.Created(w, item)
}

// UpdateItem changes fields of one item.
// PATCH /items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	item, err := h.shopping.Update(r.Context(), req.toParams(chi.URLParam(r, "id")))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, item)
}

// DeleteItem removes one item.
// DELETE /items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.shopping.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ClearItems empties the active list without archiving it.
// DELETE /items
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	if err := h.shopping.Clear(r.Context()); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ClearChecked removes every checked item.
// POST /items:clear-checked
func (h *Handler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	removed, err := h.shopping.ClearChecked(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, clearCheckedResponse{Removed: removed})
}

// ListCategories returns every category in display order.
// GET /categories?lang=he|en
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	lang, err := h.language(r)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	order := domain.CategoryOrder()
	out := make([]categoryDTO, 0, len(order))
	for _, key := range order {
		info, _ := domain.LookupCategory(key)
		out = append(out, categoryDTO{
			Key:       key,
			Icon:      info.Icon,
			Name:      info.Name(lang),
			Collapsed: h.collapse.IsCollapsed(key),
		})
	}
	response.OK(w, out)
}

// ToggleCollapse flips whether a category is collapsed in the grouped view.
// POST /categories/{key}:toggle-collapse
func (h *Handler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	key, err := domain.NewCategoryKey(chi.URLParam(r, "key"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, collapseResponse{Key: key, Collapsed: h.collapse.Toggle(key)})
}

// CompleteList archives the active list into history.
// POST /complete
func (h *Handler) CompleteList(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	record, err := h.shopping.Complete(r.Context(), req.Store)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list completed via HTTP",
		"history_id", record.ID,
		"completed_items", record.CompletedItems,
		"total_items", record.TotalItems)
	response.Created(w, record)
}

// language resolves the display language: the lang query parameter when
// present, the user setting otherwise.
func (h *Handler) language(r *http.Request) (domain.Language, error) {
	if raw := r.URL.Query().Get("lang"); raw != "" {
		return domain.NewLanguage(raw)
	}
	return h.settings.Current().Language, nil
}
