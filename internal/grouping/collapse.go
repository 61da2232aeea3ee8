package grouping

import (
	"sync"

	"github.com/rezkam/shoplist/internal/domain"
)

// CollapseState is the set of collapsed category keys.
// It is independent of item data, starts with every category expanded
// and is safe for concurrent use. The zero value is ready to use.
type CollapseState struct {
	mu        sync.RWMutex
	collapsed map[domain.CategoryKey]struct{}
}

// NewCollapseState returns an all-expanded state.
func NewCollapseState() *CollapseState {
	return &CollapseState{}
}

// Toggle flips key and reports whether it is collapsed afterwards.
func (s *CollapseState) Toggle(key domain.CategoryKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collapsed[key]; ok {
		delete(s.collapsed, key)
		return false
	}
	s.insertLocked(key)
	return true
}

// Collapse marks key collapsed. Collapsing twice has no further effect.
func (s *CollapseState) Collapse(key domain.CategoryKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(key)
}

// Expand marks key expanded.
func (s *CollapseState) Expand(key domain.CategoryKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collapsed, key)
}

// IsCollapsed reports whether key is collapsed.
func (s *CollapseState) IsCollapsed(key domain.CategoryKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collapsed[key]
	return ok
}

// Keys returns the collapsed keys in display order.
func (s *CollapseState) Keys() []domain.CategoryKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.CategoryKey, 0, len(s.collapsed))
	for _, key := range domain.CategoryOrder() {
		if _, ok := s.collapsed[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Reset expands every category.
func (s *CollapseState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed = nil
}

func (s *CollapseState) insertLocked(key domain.CategoryKey) {
	if s.collapsed == nil {
		s.collapsed = make(map[domain.CategoryKey]struct{})
	}
	s.collapsed[key] = struct{}{}
}
