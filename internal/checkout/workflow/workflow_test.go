package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/snapshot"
)

var validShipping = ShippingFields{
	FirstName: "Ada",
	LastName:  "Lovelace",
	Email:     "ada@example.com",
	Phone:     "+1 555 0100",
	Address:   "1 Analytical Way",
	City:      "London",
	State:     "LDN",
	ZipCode:   "E1 6AN",
	Country:   "UK",
}

var validPayment = PaymentFields{
	CardNumber: "4242424242424242",
	CardName:   "Ada Lovelace",
	Expiry:     "12/28",
	CVV:        "123",
}

func newTestCart(c context.Context) *store.Store {
	s := store.New("cart-storage:test", snapshot.NewMemoryStore())
	s.AddItem(c, store.Product{
		ID:        "tower",
		Name:      "SmartAero Tower",
		UnitPrice: decimal.RequireFromString("299.99"),
		ImageRef:  "SmartAero Tower.png",
	})
	s.AddItem(c, store.Product{
		ID:        "soil-kit",
		Name:      "Soil Moisture Sensor Kit",
		UnitPrice: decimal.RequireFromString("49.99"),
		ImageRef:  "Soil Moisture Sensor Kit.jpg",
	})
	return s
}

func TestShippingStageGating(t *testing.T) {
	c := context.Background()

	fields := []struct {
		name  string
		clear func(f *ShippingFields)
	}{
		{"firstName", func(f *ShippingFields) { f.FirstName = "" }},
		{"lastName", func(f *ShippingFields) { f.LastName = "" }},
		{"email", func(f *ShippingFields) { f.Email = "" }},
		{"phone", func(f *ShippingFields) { f.Phone = "" }},
		{"address", func(f *ShippingFields) { f.Address = "" }},
		{"city", func(f *ShippingFields) { f.City = "" }},
		{"state", func(f *ShippingFields) { f.State = "" }},
		{"zipCode", func(f *ShippingFields) { f.ZipCode = "" }},
		{"country", func(f *ShippingFields) { f.Country = "" }},
	}
	for _, tt := range fields {
		t.Run("empty "+tt.name+" blocks advance", func(t *testing.T) {
			w := New(newTestCart(c))
			f := validShipping
			tt.clear(&f)
			w.SetShipping(f)

			assert.False(t, w.IsStepValid(StageShipping))
			err := w.Next(c)
			assert.ErrorIs(t, err, errors.ErrStageInvalid)
			assert.Equal(t, StageShipping, w.Stage())
		})
	}

	t.Run("all nine fields filled allows advance", func(t *testing.T) {
		w := New(newTestCart(c))
		w.SetShipping(validShipping)

		assert.True(t, w.IsStepValid(StageShipping))
		require.NoError(t, w.Next(c))
		assert.Equal(t, StagePayment, w.Stage())
	})
}

func TestPaymentStageGating(t *testing.T) {
	c := context.Background()
	w := New(newTestCart(c))
	w.SetShipping(validShipping)
	require.NoError(t, w.Next(c))

	p := validPayment
	p.CVV = ""
	w.SetPayment(p)
	assert.False(t, w.IsStepValid(StagePayment))
	assert.ErrorIs(t, w.Next(c), errors.ErrStageInvalid)
	assert.Equal(t, StagePayment, w.Stage())

	w.SetPayment(validPayment)
	assert.True(t, w.IsStepValid(StagePayment))
	require.NoError(t, w.Next(c))
	assert.Equal(t, StageConfirmation, w.Stage())
}

func TestFinalizeClearsCartAndRetainsSnapshot(t *testing.T) {
	c := context.Background()
	cart := newTestCart(c)
	w := New(cart)

	w.SetShipping(validShipping)
	require.NoError(t, w.Next(c))
	w.SetPayment(validPayment)
	require.NoError(t, w.Next(c))

	// Cart is emptied the instant payment validation passes.
	assert.Empty(t, cart.Items())
	assert.True(t, cart.Total().IsZero())

	// Confirmation renders from the retained snapshot, not the live cart.
	snap, ok := w.Confirmation()
	require.True(t, ok)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "tower", snap.Items[0].ProductID)
	assert.Equal(t, "soil-kit", snap.Items[1].ProductID)
	assert.True(
		t,
		snap.Total.Equal(decimal.RequireFromString("349.98")),
		"total=%s",
		snap.Total,
	)
	assert.Equal(t, validShipping, snap.Shipping)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestBackNavigation(t *testing.T) {
	c := context.Background()
	cart := newTestCart(c)
	w := New(cart)

	w.SetShipping(validShipping)
	require.NoError(t, w.Next(c))

	// Payment back to shipping needs no validation.
	w.SetPayment(PaymentFields{})
	w.Back(c)
	assert.Equal(t, StageShipping, w.Stage())

	// Back at the first stage stays put.
	w.Back(c)
	assert.Equal(t, StageShipping, w.Stage())

	require.NoError(t, w.Next(c))
	w.SetPayment(validPayment)
	require.NoError(t, w.Next(c))
	require.Empty(t, cart.Items())
	snap, ok := w.Confirmation()
	require.True(t, ok)

	// Confirmation back to payment does not restore or re-clear the cart,
	// and resubmitting keeps the original snapshot.
	w.Back(c)
	assert.Equal(t, StagePayment, w.Stage())
	assert.Empty(t, cart.Items())
	require.NoError(t, w.Next(c))
	again, ok := w.Confirmation()
	require.True(t, ok)
	assert.Equal(t, snap.Items, again.Items)
	assert.True(t, snap.Total.Equal(again.Total))
}

func TestStageNeverSkips(t *testing.T) {
	c := context.Background()
	w := New(newTestCart(c))

	// Valid payment fields alone cannot jump the flow past shipping.
	w.SetPayment(validPayment)
	assert.ErrorIs(t, w.Next(c), errors.ErrStageInvalid)
	assert.Equal(t, StageShipping, w.Stage())

	_, ok := w.Confirmation()
	assert.False(t, ok)
}

func TestNextAfterConfirmationFails(t *testing.T) {
	c := context.Background()
	w := New(newTestCart(c))
	w.SetShipping(validShipping)
	require.NoError(t, w.Next(c))
	w.SetPayment(validPayment)
	require.NoError(t, w.Next(c))

	assert.ErrorIs(t, w.Next(c), errors.ErrAlreadyConfirmed)
}
