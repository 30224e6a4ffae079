package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/snapshot"
)

var (
	tower = Product{
		ID:        "tower",
		Name:      "SmartAero Tower",
		UnitPrice: decimal.RequireFromString("299.99"),
		ImageRef:  "SmartAero Tower.png",
	}
	soilKit = Product{
		ID:        "soil-kit",
		Name:      "Soil Moisture Sensor Kit",
		UnitPrice: decimal.RequireFromString("49.99"),
		ImageRef:  "Soil Moisture Sensor Kit.jpg",
	}
)

func newTestStore() *Store {
	return New(KeyPrefix+"test-owner", snapshot.NewMemoryStore())
}

func TestAddItemAccumulates(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	s.AddItem(c, tower)
	s.AddItem(c, tower)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "tower", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveItemIdempotent(t *testing.T) {
	c := context.Background()

	tests := []struct {
		name     string
		seed     func(s *Store)
		removeID string
		expected int
	}{
		{
			name:     "removing from empty cart leaves it unchanged",
			seed:     func(s *Store) {},
			removeID: "tower",
			expected: 0,
		},
		{
			name:     "removing absent id leaves cart unchanged",
			seed:     func(s *Store) { s.AddItem(c, tower) },
			removeID: "soil-kit",
			expected: 1,
		},
		{
			name:     "removing present id removes the line",
			seed:     func(s *Store) { s.AddItem(c, tower) },
			removeID: "tower",
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			tt.seed(s)
			s.RemoveItem(c, tt.removeID)
			assert.Len(t, s.Items(), tt.expected)
		})
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	s.AddItem(c, tower)
	s.UpdateQuantity(c, "tower", 0)

	for _, line := range s.Items() {
		assert.NotEqual(t, "tower", line.ProductID)
	}
	assert.Empty(t, s.Items())
	assert.True(t, s.Total().IsZero())
}

func TestUpdateQuantitySetsAbsolute(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	s.AddItem(c, tower)
	s.UpdateQuantity(c, "tower", 5)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestTotalMatchesRecomputedSum(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	s.AddItem(c, tower)
	s.AddItem(c, soilKit)
	s.AddItem(c, tower)
	s.UpdateQuantity(c, "soil-kit", 3)
	s.RemoveItem(c, "missing")

	expected := decimal.Zero
	for _, line := range s.Items() {
		expected = expected.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.True(t, s.Total().Equal(expected), "total=%s expected=%s", s.Total(), expected)
	assert.True(
		t,
		s.Total().Equal(decimal.RequireFromString("749.95")),
		"total=%s",
		s.Total(),
	)
	assert.False(t, s.Total().IsNegative())
}

func TestClearEmptiesCart(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	s.AddItem(c, tower)
	s.AddItem(c, soilKit)
	s.Clear(c)

	assert.Empty(t, s.Items())
	assert.True(t, s.Total().IsZero())
}

func TestMutationsNotifyObservers(t *testing.T) {
	c := context.Background()
	s := newTestStore()

	notified := 0
	unsubscribe := s.Subscribe(func() { notified++ })

	s.AddItem(c, tower)
	s.UpdateQuantity(c, "tower", 2)
	s.RemoveItem(c, "tower")
	s.Clear(c)
	assert.Equal(t, 4, notified)

	unsubscribe()
	s.AddItem(c, tower)
	assert.Equal(t, 4, notified)
}

func TestPersistAndRehydrate(t *testing.T) {
	c := context.Background()
	snapshots := snapshot.NewMemoryStore()

	s := New(KeyPrefix+"owner", snapshots)
	s.AddItem(c, tower)
	s.AddItem(c, soilKit)
	s.AddItem(c, tower)

	restored := New(KeyPrefix+"owner", snapshots)
	require.NoError(t, restored.Rehydrate(c))

	items := restored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "tower", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "soil-kit", items[1].ProductID)
	assert.True(t, restored.Total().Equal(decimal.RequireFromString("649.97")))
}

func TestPersistenceFailureKeepsMemoryAuthoritative(t *testing.T) {
	c := context.Background()
	s := New(KeyPrefix+"owner", failingSnapshots{})

	s.AddItem(c, tower)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

type failingSnapshots struct{}

func (failingSnapshots) Save(context.Context, string, interface{}) error {
	return assert.AnError
}

func (failingSnapshots) Load(context.Context, string, interface{}) (bool, error) {
	return false, nil
}

func (failingSnapshots) Delete(context.Context, string) error { return nil }

func (failingSnapshots) Watch(context.Context) (<-chan string, error) {
	return nil, assert.AnError
}
