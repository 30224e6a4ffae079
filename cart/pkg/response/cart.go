package response

import (
	"github.com/shopspring/decimal"

	"github.com/smartaero/storefront/internal/cart/store"
)

type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	OwnerID string          `json:"ownerId"`
	Items   []CartItem      `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

func FromStore(ownerID string, s *store.Store) Cart {
	lines := s.Items()
	items := make([]CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, CartItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
			Subtotal:  line.Subtotal(),
		})
	}
	return Cart{OwnerID: ownerID, Items: items, Total: s.Total()}
}
