package response

import (
	"github.com/shopspring/decimal"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/internal/checkout/workflow"
)

type Checkout struct {
	DraftID      string                  `json:"draftId"`
	OwnerID      string                  `json:"ownerId"`
	Stage        string                  `json:"stage"`
	ShippingOK   bool                    `json:"shippingOk"`
	PaymentOK    bool                    `json:"paymentOk"`
	CartItems    []store.Line            `json:"cartItems"`
	CartTotal    decimal.Decimal         `json:"cartTotal"`
	Confirmation *workflow.OrderSnapshot `json:"confirmation,omitempty"`
}
