package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/errors"
)

func TestListProducts(t *testing.T) {
	c := context.Background()
	svc := NewCatalogService()

	tests := []struct {
		name     string
		category string
		query    string
		expected []string
	}{
		{
			name:     "no filter returns whole catalog",
			expected: []string{"tower", "soil-kit", "irrigation", "ph-meter", "temp-sensor", "esp32-kit", "cable-kit", "solar-kit"},
		},
		{
			name:     "category All returns whole catalog",
			category: "All",
			expected: []string{"tower", "soil-kit", "irrigation", "ph-meter", "temp-sensor", "esp32-kit", "cable-kit", "solar-kit"},
		},
		{
			name:     "category filter",
			category: "Accessories",
			expected: []string{"cable-kit"},
		},
		{
			name:     "name search is case insensitive",
			query:    "SOIL",
			expected: []string{"tower", "soil-kit"},
		},
		{
			name:     "search matches description",
			query:    "battery backup",
			expected: []string{"solar-kit"},
		},
		{
			name:     "category and search combine",
			category: "IoT Devices",
			query:    "soil",
			expected: []string{"soil-kit"},
		},
		{
			name:     "no match returns empty",
			query:    "greenhouse drone",
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ListProducts(c, tt.category, tt.query)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFindProductById(t *testing.T) {
	c := context.Background()
	svc := NewCatalogService()

	p, err := svc.FindProductById(c, "tower")
	require.NoError(t, err)
	assert.Equal(t, "SmartAero Tower", p.Name)
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("299.99")))

	_, err = svc.FindProductById(c, "unknown")
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
}
