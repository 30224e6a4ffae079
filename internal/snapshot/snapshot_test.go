package snapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	c := context.Background()

	found, err := s.Load(c, "cart-storage:owner-1", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(c, "cart-storage:owner-1", payload{Name: "tower", Count: 2}))

	loaded := payload{}
	found, err = s.Load(c, "cart-storage:owner-1", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "tower", Count: 2}, loaded)

	require.NoError(t, s.Delete(c, "cart-storage:owner-1"))
	found, err = s.Load(c, "cart-storage:owner-1", &payload{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	s := NewMemoryStore()
	c := context.Background()

	env, err := json.Marshal(envelope{Version: Version + 1, Data: []byte(`{}`)})
	require.NoError(t, err)
	s.mu.Lock()
	s.values["auth-storage:device-1"] = env
	s.mu.Unlock()

	_, err = s.Load(c, "auth-storage:device-1", &payload{})
	assert.ErrorIs(t, err, ErrVersionMismatch)
}
