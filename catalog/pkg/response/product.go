package response

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageRef    string          `json:"image"`
	UnitPrice   decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
}
