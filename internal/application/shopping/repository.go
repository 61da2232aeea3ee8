package shopping

import (
	"context"

	"github.com/rezkam/shoplist/internal/domain"
)

// Archive stores completed trips and saved lists.
// Implemented by mirror.Adapter.
type Archive interface {
	SaveHistory(ctx context.Context, h domain.ShoppingHistory) error
	SaveSavedList(ctx context.Context, list domain.SavedList) error
	GetSavedList(ctx context.Context, id string) (domain.SavedList, error)
}
