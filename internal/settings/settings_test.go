package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/memory"
)

type brokenKV struct{ *memory.Store }

func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("read-only") }

func TestLoad_Defaults(t *testing.T) {
	s := Load(context.Background(), memory.NewStore())
	assert.Equal(t, Defaults(), s.Current())
}

func TestLoad_StoredValue(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, kv.Set(ctx, localcache.KeySettings, []byte(`{"language":"en","sound_enabled":false}`)))

	s := Load(ctx, kv)
	assert.Equal(t, Settings{Language: domain.LanguageEnglish, SoundEnabled: false}, s.Current())
}

func TestLoad_InvalidStoredValueUsesDefaults(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{`, `{"language":"fr"}`, `{"language":""}`} {
		kv := memory.NewStore()
		require.NoError(t, kv.Set(ctx, localcache.KeySettings, []byte(raw)))
		assert.Equal(t, Defaults(), Load(ctx, kv).Current(), "raw %s", raw)
	}
}

func TestUpdate_PersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	s := Load(ctx, kv)

	ch, cancel := s.Subscribe()
	defer cancel()

	next, err := s.Update(ctx, func(cur Settings) Settings {
		cur.Language = domain.LanguageEnglish
		return cur
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEnglish, next.Language)
	assert.Equal(t, next, s.Current())

	select {
	case got := <-ch:
		assert.Equal(t, next, got)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}

	// A fresh load sees the persisted snapshot.
	assert.Equal(t, next, Load(ctx, kv).Current())
}

func TestUpdate_SlowSubscriberSeesLatest(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, memory.NewStore())
	ch, cancel := s.Subscribe()
	defer cancel()

	for _, sound := range []bool{false, true, false} {
		_, err := s.Update(ctx, func(cur Settings) Settings {
			cur.SoundEnabled = sound
			return cur
		})
		require.NoError(t, err)
	}

	got := <-ch
	assert.False(t, got.SoundEnabled)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued snapshot %+v", extra)
	default:
	}
}

func TestUpdate_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, memory.NewStore())

	_, err := s.Update(ctx, func(cur Settings) Settings {
		cur.Language = "fr"
		return cur
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLanguage)
	assert.Equal(t, Defaults(), s.Current())
}

func TestUpdate_StorageFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, brokenKV{memory.NewStore()})

	_, err := s.Update(ctx, func(cur Settings) Settings {
		cur.SoundEnabled = false
		return cur
	})
	require.Error(t, err)
	assert.True(t, s.Current().SoundEnabled)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := Load(context.Background(), memory.NewStore())
	ch, cancel := s.Subscribe()

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Updates after cancel do not panic on the closed channel.
	_, err := s.Update(context.Background(), func(cur Settings) Settings { return cur })
	assert.NoError(t, err)
}
