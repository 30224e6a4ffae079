package request

import "github.com/smartaero/storefront/internal/checkout/workflow"

type StartCheckout struct {
	OwnerID string `json:"ownerId" validate:"required"`
}

// Shipping carries the shipping form as submitted. Fields may be empty here;
// completeness is judged by the workflow when it decides whether the stage
// can advance.
type Shipping struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

func (s Shipping) Fields() workflow.ShippingFields {
	return workflow.ShippingFields{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		ZipCode:   s.ZipCode,
		Country:   s.Country,
	}
}

type Payment struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

func (p Payment) Fields() workflow.PaymentFields {
	return workflow.PaymentFields{
		CardNumber: p.CardNumber,
		CardName:   p.CardName,
		Expiry:     p.Expiry,
		CVV:        p.CVV,
	}
}
