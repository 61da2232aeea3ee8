package handler

import (
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/grouping"
)

type createItemRequest struct {
	Text     string  `json:"text"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// updateItemRequest carries an optional explicit update_mask. Without
// one, every field present in the body is updated.
type updateItemRequest struct {
	UpdateMask []string `json:"update_mask,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Checked    *bool    `json:"checked,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
}

func (req updateItemRequest) toParams(id string) domain.UpdateItemParams {
	params := domain.UpdateItemParams{
		ItemID:     id,
		UpdateMask: req.UpdateMask,
		Text:       req.Text,
		Checked:    req.Checked,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
	}
	if len(params.UpdateMask) > 0 {
		return params
	}
	if req.Text != nil {
		params.UpdateMask = append(params.UpdateMask, domain.FieldText)
	}
	if req.Checked != nil {
		params.UpdateMask = append(params.UpdateMask, domain.FieldChecked)
	}
	if req.Quantity != nil {
		params.UpdateMask = append(params.UpdateMask, domain.FieldQuantity)
	}
	if req.Unit != nil {
		params.UpdateMask = append(params.UpdateMask, domain.FieldUnit)
	}
	return params
}

type completeRequest struct {
	Store string `json:"store"`
}

type createSavedListRequest struct {
	Name string `json:"name"`
}

type updateSettingsRequest struct {
	Language     *string `json:"language,omitempty"`
	SoundEnabled *bool   `json:"sound_enabled,omitempty"`
}

type groupDTO struct {
	Key       domain.CategoryKey    `json:"key"`
	Icon      string                `json:"icon"`
	Name      string                `json:"name"`
	Collapsed bool                  `json:"collapsed"`
	Pending   int                   `json:"pending"`
	Completed int                   `json:"completed"`
	Total     int                   `json:"total"`
	Items     []domain.ShoppingItem `json:"items"`
}

type itemsResponse struct {
	Language  domain.Language `json:"language"`
	Groups    []groupDTO      `json:"groups"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
}

type categoryDTO struct {
	Key       domain.CategoryKey `json:"key"`
	Icon      string             `json:"icon"`
	Name      string             `json:"name"`
	Collapsed bool               `json:"collapsed"`
}

type collapseResponse struct {
	Key       domain.CategoryKey `json:"key"`
	Collapsed bool               `json:"collapsed"`
}

type clearCheckedResponse struct {
	Removed int `json:"removed"`
}

type historyListResponse struct {
	History []domain.ShoppingHistory `json:"history"`
}

type savedListsResponse struct {
	SavedLists []domain.SavedList `json:"saved_lists"`
}

type loadSavedListResponse struct {
	Items domain.ItemList `json:"items"`
}

type syncStatusResponse struct {
	Status  string `json:"status"`
	Pending int    `json:"pending"`
}

// mapGroups renders groups in lang, marking collapsed categories.
func mapGroups(groups []grouping.Group, lang domain.Language, collapse *grouping.CollapseState) []groupDTO {
	out := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupDTO{
			Key:       g.Key,
			Icon:      g.Info.Icon,
			Name:      g.Info.Name(lang),
			Collapsed: collapse.IsCollapsed(g.Key),
			Pending:   g.Pending,
			Completed: g.Completed,
			Total:     g.Total,
			Items:     g.Items,
		})
	}
	return out
}
