package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type AnalyticsPoint struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
	Users   int             `json:"users"`
}

type InventoryBucket struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	InStock   int    `json:"inStock"`
	Reserved  int    `json:"reserved"`
}

type Analytics struct {
	Period    string            `json:"period"`
	Points    []AnalyticsPoint  `json:"points"`
	Inventory []InventoryBucket `json:"inventory"`
}

type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	PlacedAt   string          `json:"placedAt"`
}

type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Orders int    `json:"orders"`
	Joined string `json:"joined"`
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"price"`
}
