package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/internal/checkout/workflow"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/snapshot"
)

var validShipping = workflow.ShippingFields{
	FirstName: "Ada",
	LastName:  "Lovelace",
	Email:     "ada@example.com",
	Phone:     "555-0100",
	Address:   "12 Greenhouse Lane",
	City:      "Portland",
	State:     "OR",
	ZipCode:   "97201",
	Country:   "USA",
}

var validPayment = workflow.PaymentFields{
	CardNumber: "4242424242424242",
	CardName:   "Ada Lovelace",
	Expiry:     "12/27",
	CVV:        "123",
}

func newTestService(t *testing.T, ownerID string) (*CheckoutService, *store.Registry) {
	t.Helper()
	carts := store.NewRegistry(snapshot.NewMemoryStore())
	cart, err := carts.Cart(context.Background(), ownerID)
	require.NoError(t, err)
	cart.AddItem(context.Background(), store.Product{
		ID:        "hydroponic-tower",
		Name:      "Hydroponic Tower Garden",
		UnitPrice: decimal.RequireFromString("299.99"),
	})
	return NewCheckoutService(carts), carts
}

func TestStartCreatesDraftAtShippingStage(t *testing.T) {
	svc, _ := newTestService(t, "owner-1")

	checkout, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotEmpty(t, checkout.DraftID)
	assert.Equal(t, "owner-1", checkout.OwnerID)
	assert.Equal(t, "shipping", checkout.Stage)
	assert.Len(t, checkout.CartItems, 1)
	assert.Nil(t, checkout.Confirmation)
}

func TestSubmitShippingAdvancesToPayment(t *testing.T) {
	svc, _ := newTestService(t, "owner-1")
	started, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)

	checkout, err := svc.SubmitShipping(context.Background(), started.DraftID, validShipping)
	require.NoError(t, err)
	assert.Equal(t, "payment", checkout.Stage)
}

func TestSubmitIncompleteShippingKeepsStage(t *testing.T) {
	svc, _ := newTestService(t, "owner-1")
	started, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)

	incomplete := validShipping
	incomplete.ZipCode = ""
	_, err = svc.SubmitShipping(context.Background(), started.DraftID, incomplete)
	assert.ErrorIs(t, err, errors.ErrStageInvalid)

	checkout, err := svc.Find(context.Background(), started.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "shipping", checkout.Stage)
}

func TestSubmitPaymentPlacesOrderAndClearsCart(t *testing.T) {
	svc, carts := newTestService(t, "owner-1")
	started, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)

	_, err = svc.SubmitShipping(context.Background(), started.DraftID, validShipping)
	require.NoError(t, err)
	checkout, err := svc.SubmitPayment(context.Background(), started.DraftID, validPayment)
	require.NoError(t, err)

	assert.Equal(t, "confirmation", checkout.Stage)
	require.NotNil(t, checkout.Confirmation)
	assert.Len(t, checkout.Confirmation.Items, 1)
	assert.True(t, checkout.Confirmation.Total.Equal(decimal.RequireFromString("299.99")))

	cart, err := carts.Cart(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items())
}

func TestOperationsOnUnknownDraftFail(t *testing.T) {
	svc, _ := newTestService(t, "owner-1")
	c := context.Background()

	_, err := svc.Find(c, "missing")
	assert.ErrorIs(t, err, errors.ErrDraftNotFound)
	_, err = svc.SubmitShipping(c, "missing", validShipping)
	assert.ErrorIs(t, err, errors.ErrDraftNotFound)
	_, err = svc.SubmitPayment(c, "missing", validPayment)
	assert.ErrorIs(t, err, errors.ErrDraftNotFound)
	_, err = svc.Back(c, "missing")
	assert.ErrorIs(t, err, errors.ErrDraftNotFound)
	assert.ErrorIs(t, svc.Abandon(c, "missing"), errors.ErrDraftNotFound)
}

func TestBackReturnsToPreviousStage(t *testing.T) {
	svc, _ := newTestService(t, "owner-1")
	started, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)

	_, err = svc.SubmitShipping(context.Background(), started.DraftID, validShipping)
	require.NoError(t, err)
	checkout, err := svc.Back(context.Background(), started.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "shipping", checkout.Stage)

	// Back at the first stage stays put.
	checkout, err = svc.Back(context.Background(), started.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "shipping", checkout.Stage)
}

func TestAbandonLeavesCartIntact(t *testing.T) {
	svc, carts := newTestService(t, "owner-1")
	started, err := svc.Start(context.Background(), "owner-1")
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(context.Background(), started.DraftID))

	_, err = svc.Find(context.Background(), started.DraftID)
	assert.ErrorIs(t, err, errors.ErrDraftNotFound)

	cart, err := carts.Cart(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items(), 1)
}
