package grouping

import (
	"sync"
	"testing"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCollapseState_Toggle(t *testing.T) {
	var s CollapseState

	assert.False(t, s.IsCollapsed(domain.CategoryDairy))
	assert.True(t, s.Toggle(domain.CategoryDairy))
	assert.True(t, s.IsCollapsed(domain.CategoryDairy))
	assert.False(t, s.Toggle(domain.CategoryDairy))
	assert.False(t, s.IsCollapsed(domain.CategoryDairy))
}

func TestCollapseState_CollapseIsIdempotent(t *testing.T) {
	s := NewCollapseState()

	s.Collapse(domain.CategoryMeat)
	s.Collapse(domain.CategoryMeat)
	s.Expand(domain.CategoryMeat)

	assert.False(t, s.IsCollapsed(domain.CategoryMeat))
}

func TestCollapseState_KeysInDisplayOrder(t *testing.T) {
	s := NewCollapseState()
	s.Collapse(domain.CategoryOther)
	s.Collapse(domain.CategoryProduce)
	s.Collapse(domain.CategorySnacks)

	assert.Equal(t, []domain.CategoryKey{
		domain.CategoryProduce,
		domain.CategorySnacks,
		domain.CategoryOther,
	}, s.Keys())

	s.Reset()
	assert.Empty(t, s.Keys())
}

func TestCollapseState_ConcurrentToggles(t *testing.T) {
	s := NewCollapseState()

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			s.Toggle(domain.CategoryBakery)
		})
	}
	wg.Wait()

	// An even number of toggles leaves the key expanded.
	assert.False(t, s.IsCollapsed(domain.CategoryBakery))
}
