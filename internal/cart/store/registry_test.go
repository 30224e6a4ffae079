package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/snapshot"
)

func TestRegistryReturnsSameStorePerOwner(t *testing.T) {
	c := context.Background()
	r := NewRegistry(snapshot.NewMemoryStore())

	first, err := r.Cart(c, "alice")
	require.NoError(t, err)
	second, err := r.Cart(c, "alice")
	require.NoError(t, err)
	other, err := r.Cart(c, "bob")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestRegistryRehydratesOnFirstAccess(t *testing.T) {
	c := context.Background()
	snapshots := snapshot.NewMemoryStore()

	seed := New(KeyPrefix+"alice", snapshots)
	seed.AddItem(c, tower)

	r := NewRegistry(snapshots)
	s, err := r.Cart(c, "alice")
	require.NoError(t, err)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "tower", s.Items()[0].ProductID)
}

func TestRegistryReconcilesExternalSnapshotChange(t *testing.T) {
	c, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := snapshot.NewMemoryStore()
	r := NewRegistry(snapshots)

	s, err := r.Cart(c, "alice")
	require.NoError(t, err)
	require.Empty(t, s.Items())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Watch(c)
	}()

	// Another writer rewrites the snapshot behind this process's back.
	other := New(KeyPrefix+"alice", snapshot.NewMemoryStore())
	other.AddItem(c, soilKit)
	require.NoError(t, snapshots.Save(c, KeyPrefix+"alice", other.Items()))
	snapshots.NotifyExternalChange(KeyPrefix + "alice")

	assert.Eventually(t, func() bool {
		items := s.Items()
		return len(items) == 1 && items[0].ProductID == "soil-kit"
	}, time.Second, 10*time.Millisecond)
	assert.True(t, s.Total().Equal(decimal.RequireFromString("49.99")))

	cancel()
	<-done
}
