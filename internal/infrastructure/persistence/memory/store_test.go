package memory

import (
	"context"
	"testing"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/compliance"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreCompliance(t *testing.T) {
	compliance.RunKVComplianceTest(t, func(t *testing.T) localcache.KV {
		return NewStore()
	})
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "k", []byte("v")), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
