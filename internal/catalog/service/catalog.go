package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/catalog/pkg/response"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
	inOtel "github.com/smartaero/storefront/internal/otel"
)

var tracer = otel.Tracer("catalog/service")

// Categories in storefront display order.
var Categories = []string{"Main Product", "IoT Devices", "Accessories", "Power Kits"}

func price(s string) decimal.Decimal  { return decimal.RequireFromString(s) }
func rating(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var products = []response.Product{
	{
		ID:          "tower",
		Name:        "SmartAero Tower",
		Category:    "Main Product",
		Description: "Temp, Humidity, Soil Moisture, Water Level, pH; Solar-Powered; App-Connected",
		ImageRef:    "SmartAero Tower.png",
		UnitPrice:   price("299.99"),
		Rating:      rating("4.8"),
	},
	{
		ID:          "soil-kit",
		Name:        "Soil Moisture Sensor Kit",
		Category:    "IoT Devices",
		Description: "High Accuracy, Long-term Stability, Easy Installation",
		ImageRef:    "Soil Moisture Sensor Kit.jpg",
		UnitPrice:   price("49.99"),
		Rating:      rating("4.6"),
	},
	{
		ID:          "irrigation",
		Name:        "Smart Irrigation Controller",
		Category:    "IoT Devices",
		Description: "Automated Scheduling, Weather Adaptation, Water Usage Analytics",
		ImageRef:    "Smart Irrigation Controller.jpg",
		UnitPrice:   price("149.99"),
		Rating:      rating("4.7"),
	},
	{
		ID:          "ph-meter",
		Name:        "pH Meter Kit PHO-14",
		Category:    "IoT Devices",
		Description: "Digital Display, Auto Temp Compensation, Quick Readings",
		ImageRef:    "pH Meter Kit PHO-14.jpg",
		UnitPrice:   price("79.99"),
		Rating:      rating("4.5"),
	},
	{
		ID:          "temp-sensor",
		Name:        "Waterproof Temperature Sensor",
		Category:    "IoT Devices",
		Description: "Waterproof, High Precision, Long Range Wireless",
		ImageRef:    "temp.jpg",
		UnitPrice:   price("199.99"),
		Rating:      rating("4.8"),
	},
	{
		ID:          "esp32-kit",
		Name:        "SmartAero ESP32 IoT Kit",
		Category:    "IoT Devices",
		Description: "Pre-programmed, Ready to Deploy, Extended Range",
		ImageRef:    "ESP32.jpg",
		UnitPrice:   price("89.99"),
		Rating:      rating("4.6"),
	},
	{
		ID:          "cable-kit",
		Name:        "Sensor Cable Kit",
		Category:    "Accessories",
		Description: "Weather-resistant, Multiple Lengths, Quick Connect",
		ImageRef:    "cable.png",
		UnitPrice:   price("29.99"),
		Rating:      rating("4.7"),
	},
	{
		ID:          "solar-kit",
		Name:        "Solar Power Kit",
		Category:    "Power Kits",
		Description: "High Efficiency Panel, Battery Backup, Charge Controller",
		ImageRef:    "solar.jpg",
		UnitPrice:   price("159.99"),
		Rating:      rating("4.8"),
	},
}

type CatalogService struct {
	products []response.Product
}

func NewCatalogService() CatalogService {
	return CatalogService{products: products}
}

// ListProducts filters by category ("" or "All" keeps everything) and by a
// case-insensitive substring match on name and description.
func (s CatalogService) ListProducts(c context.Context, category, query string) []response.Product {
	_, span := tracer.Start(c, "CatalogService ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService ListProducts").
		Str(log.KeyCategory, category).
		Str(log.KeySearch, query).
		Logger()

	query = strings.ToLower(query)
	filtered := []response.Product{}
	for _, p := range s.products {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}

	logger.Info().Int("count", len(filtered)).Msg("listed products")
	return filtered
}

func (s CatalogService) FindProductById(c context.Context, id string) (response.Product, error) {
	_, span := tracer.Start(c, "CatalogService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService FindProductById").
		Str(log.KeyProductID, id).
		Logger()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}

	err := fmt.Errorf("productId=%s with error=%w", id, errors.ErrProductNotFound)
	inOtel.RecordError(err, span)
	logger.Info().Err(err).Msg(err.Error())
	return response.Product{}, err
}
