// Package service backs the admin dashboard with synthetic data. The numbers
// are generated, not measured; the dashboard exists to exercise the admin
// surface, and the listings are seeded mocks.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/admin/pkg/response"
	catalogService "github.com/smartaero/storefront/internal/catalog/service"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("admin/service")

// Period selects the granularity of an analytics series.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) points() int {
	switch p {
	case PeriodWeekly:
		return 12
	case PeriodMonthly:
		return 6
	default:
		return 30
	}
}

func (p Period) step() time.Duration {
	switch p {
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	case PeriodMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

type AdminService struct {
	catalog catalogService.CatalogService
	rng     *rand.Rand
	now     func() time.Time
}

func NewAdminService(catalog catalogService.CatalogService) AdminService {
	return AdminService{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Analytics produces a synthetic revenue/orders/users series for the period
// plus inventory buckets derived from the catalog.
func (s AdminService) Analytics(c context.Context, period Period) (response.Analytics, error) {
	c, span := tracer.Start(c, "AdminService Analytics")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Analytics").
		Str(log.KeyProcess, "generating analytics").
		Logger()

	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		err := fmt.Errorf("unknown analytics period=%s", period)
		logger.Info().Err(err).Msg(err.Error())
		return response.Analytics{}, err
	}

	logger.Info().Msg("generating analytics")
	points := make([]response.AnalyticsPoint, 0, period.points())
	end := s.now().Truncate(24 * time.Hour)
	for i := period.points() - 1; i >= 0; i-- {
		revenue := decimal.NewFromFloat(500 + s.rng.Float64()*4500).Round(2)
		points = append(points, response.AnalyticsPoint{
			Date:    end.Add(-time.Duration(i) * period.step()),
			Revenue: revenue,
			Orders:  5 + s.rng.Intn(45),
			Users:   10 + s.rng.Intn(90),
		})
	}

	inventory := make([]response.InventoryBucket, 0)
	for _, product := range s.catalog.ListProducts(c, "", "") {
		inventory = append(inventory, response.InventoryBucket{
			ProductID: product.ID,
			Name:      product.Name,
			InStock:   10 + s.rng.Intn(190),
			Reserved:  s.rng.Intn(10),
		})
	}
	logger.Info().Msg("generated analytics")

	return response.Analytics{Period: string(period), Points: points, Inventory: inventory}, nil
}

var mockCustomers = []response.Customer{
	{ID: "cust-001", Name: "Maria Chen", Email: "maria.chen@example.com", Orders: 7, Joined: "2025-03-14"},
	{ID: "cust-002", Name: "Devon Park", Email: "devon.park@example.com", Orders: 3, Joined: "2025-06-02"},
	{ID: "cust-003", Name: "Priya Nair", Email: "priya.nair@example.com", Orders: 11, Joined: "2024-11-21"},
	{ID: "cust-004", Name: "Lucas Webb", Email: "lucas.webb@example.com", Orders: 1, Joined: "2026-01-09"},
	{ID: "cust-005", Name: "Ana Sousa", Email: "ana.sousa@example.com", Orders: 5, Joined: "2025-08-30"},
}

var mockOrders = []response.Order{
	{ID: "ord-1001", CustomerID: "cust-003", Total: decimal.RequireFromString("349.98"), Status: "delivered", PlacedAt: "2026-08-02"},
	{ID: "ord-1002", CustomerID: "cust-001", Total: decimal.RequireFromString("299.99"), Status: "shipped", PlacedAt: "2026-08-11"},
	{ID: "ord-1003", CustomerID: "cust-005", Total: decimal.RequireFromString("89.99"), Status: "processing", PlacedAt: "2026-08-19"},
	{ID: "ord-1004", CustomerID: "cust-002", Total: decimal.RequireFromString("229.98"), Status: "processing", PlacedAt: "2026-08-24"},
	{ID: "ord-1005", CustomerID: "cust-004", Total: decimal.RequireFromString("159.99"), Status: "pending", PlacedAt: "2026-08-27"},
}

// Orders lists the mock order book.
func (s AdminService) Orders(c context.Context) []response.Order {
	_, span := tracer.Start(c, "AdminService Orders")
	defer span.End()

	orders := make([]response.Order, len(mockOrders))
	copy(orders, mockOrders)
	return orders
}

// Customers lists the mock customer book.
func (s AdminService) Customers(c context.Context) []response.Customer {
	_, span := tracer.Start(c, "AdminService Customers")
	defer span.End()

	customers := make([]response.Customer, len(mockCustomers))
	copy(customers, mockCustomers)
	return customers
}

// Products lists the catalog as the admin sees it.
func (s AdminService) Products(c context.Context) []response.Product {
	c, span := tracer.Start(c, "AdminService Products")
	defer span.End()

	products := make([]response.Product, 0)
	for _, p := range s.catalog.ListProducts(c, "", "") {
		products = append(products, response.Product{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			UnitPrice: p.UnitPrice,
		})
	}
	return products
}
