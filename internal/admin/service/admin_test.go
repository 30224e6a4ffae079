package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogService "github.com/smartaero/storefront/internal/catalog/service"
)

func TestAnalyticsSeriesShape(t *testing.T) {
	svc := NewAdminService(catalogService.NewCatalogService())

	testCases := []struct {
		name           string
		period         Period
		expectedPoints int
	}{
		{name: "Daily", period: PeriodDaily, expectedPoints: 30},
		{name: "Weekly", period: PeriodWeekly, expectedPoints: 12},
		{name: "Monthly", period: PeriodMonthly, expectedPoints: 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analytics, err := svc.Analytics(context.Background(), tc.period)
			require.NoError(t, err)
			assert.Equal(t, string(tc.period), analytics.Period)
			assert.Len(t, analytics.Points, tc.expectedPoints)
			assert.NotEmpty(t, analytics.Inventory)
			for _, point := range analytics.Points {
				assert.True(t, point.Revenue.IsPositive())
				assert.Positive(t, point.Orders)
				assert.Positive(t, point.Users)
			}
		})
	}
}

func TestAnalyticsRejectsUnknownPeriod(t *testing.T) {
	svc := NewAdminService(catalogService.NewCatalogService())

	_, err := svc.Analytics(context.Background(), Period("yearly"))
	assert.Error(t, err)
}

func TestMockListings(t *testing.T) {
	svc := NewAdminService(catalogService.NewCatalogService())

	assert.NotEmpty(t, svc.Orders(context.Background()))
	assert.NotEmpty(t, svc.Customers(context.Background()))

	products := svc.Products(context.Background())
	require.NotEmpty(t, products)
	assert.Equal(t, "tower", products[0].ID)
}
