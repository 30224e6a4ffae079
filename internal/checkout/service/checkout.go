package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/internal/checkout/workflow"
	"github.com/smartaero/storefront/checkout/pkg/response"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("checkout/service")

type draft struct {
	ownerID  string
	workflow *workflow.Workflow
}

// CheckoutService owns the in-flight checkout drafts. Drafts are ephemeral:
// created when a checkout starts, discarded on completion or abandonment,
// never persisted.
type CheckoutService struct {
	mu     sync.Mutex
	drafts map[string]draft
	carts  *store.Registry
}

func NewCheckoutService(carts *store.Registry) *CheckoutService {
	return &CheckoutService{drafts: map[string]draft{}, carts: carts}
}

// Start creates a fresh draft bound to the owner's cart and returns its id.
func (s *CheckoutService) Start(c context.Context, ownerID string) (response.Checkout, error) {
	c, span := tracer.Start(c, "CheckoutService Start")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Start").
		Str(log.KeyOwnerID, ownerID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting cart").Logger()
	logger.Info().Msg("getting cart")
	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("got cart")

	draftID := uuid.NewString()
	d := draft{ownerID: ownerID, workflow: workflow.New(cart)}
	s.mu.Lock()
	s.drafts[draftID] = d
	s.mu.Unlock()

	logger = logger.With().Str(log.KeyDraftID, draftID).Logger()
	logger.Info().Msg("started checkout draft")

	return s.view(draftID, d, cart), nil
}

func (s *CheckoutService) find(draftID string) (draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[draftID]
	return d, ok
}

// SubmitShipping stores the shipping fields and advances to the payment
// stage when they are complete.
func (s *CheckoutService) SubmitShipping(
	c context.Context,
	draftID string,
	fields workflow.ShippingFields,
) (response.Checkout, error) {
	c, span := tracer.Start(c, "CheckoutService SubmitShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService SubmitShipping").
		Str(log.KeyDraftID, draftID).
		Logger()

	d, ok := s.find(draftID)
	if !ok {
		err := fmt.Errorf("draftId=%s with error=%w", draftID, commonErrors.ErrDraftNotFound)
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	d.workflow.SetShipping(fields)
	logger.Info().Msg("submitting shipping stage")
	c = logger.WithContext(c)
	if err := d.workflow.Next(c); err != nil {
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("submitted shipping stage")

	cart, err := s.carts.Cart(c, d.ownerID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	return s.view(draftID, d, cart), nil
}

// SubmitPayment stores the payment fields and, when they are complete, places
// the order: the workflow snapshots the cart, clears it, and lands on the
// confirmation stage.
func (s *CheckoutService) SubmitPayment(
	c context.Context,
	draftID string,
	fields workflow.PaymentFields,
) (response.Checkout, error) {
	c, span := tracer.Start(c, "CheckoutService SubmitPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService SubmitPayment").
		Str(log.KeyDraftID, draftID).
		Logger()

	d, ok := s.find(draftID)
	if !ok {
		err := fmt.Errorf("draftId=%s with error=%w", draftID, commonErrors.ErrDraftNotFound)
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	d.workflow.SetPayment(fields)
	logger.Info().Msg("submitting payment stage")
	c = logger.WithContext(c)
	if err := d.workflow.Next(c); err != nil {
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("submitted payment stage, order placed")

	cart, err := s.carts.Cart(c, d.ownerID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	return s.view(draftID, d, cart), nil
}

// Back moves the draft one stage backward.
func (s *CheckoutService) Back(c context.Context, draftID string) (response.Checkout, error) {
	c, span := tracer.Start(c, "CheckoutService Back")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Back").
		Str(log.KeyDraftID, draftID).
		Logger()

	d, ok := s.find(draftID)
	if !ok {
		err := fmt.Errorf("draftId=%s with error=%w", draftID, commonErrors.ErrDraftNotFound)
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	c = logger.WithContext(c)
	d.workflow.Back(c)

	cart, err := s.carts.Cart(c, d.ownerID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	return s.view(draftID, d, cart), nil
}

// Find returns the current draft state.
func (s *CheckoutService) Find(c context.Context, draftID string) (response.Checkout, error) {
	c, span := tracer.Start(c, "CheckoutService Find")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Find").
		Str(log.KeyDraftID, draftID).
		Logger()

	d, ok := s.find(draftID)
	if !ok {
		err := fmt.Errorf("draftId=%s with error=%w", draftID, commonErrors.ErrDraftNotFound)
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	cart, err := s.carts.Cart(c, d.ownerID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	return s.view(draftID, d, cart), nil
}

// Abandon discards the draft. The cart is left exactly as it is.
func (s *CheckoutService) Abandon(c context.Context, draftID string) error {
	_, span := tracer.Start(c, "CheckoutService Abandon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Abandon").
		Str(log.KeyDraftID, draftID).
		Logger()

	s.mu.Lock()
	_, ok := s.drafts[draftID]
	delete(s.drafts, draftID)
	s.mu.Unlock()

	if !ok {
		err := fmt.Errorf("draftId=%s with error=%w", draftID, commonErrors.ErrDraftNotFound)
		commonErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("abandoned checkout draft")
	return nil
}

func (s *CheckoutService) view(draftID string, d draft, cart *store.Store) response.Checkout {
	view := response.Checkout{
		DraftID:    draftID,
		OwnerID:    d.ownerID,
		Stage:      d.workflow.Stage().String(),
		ShippingOK: d.workflow.IsStepValid(workflow.StageShipping),
		PaymentOK:  d.workflow.IsStepValid(workflow.StagePayment),
		CartItems:  cart.Items(),
		CartTotal:  cart.Total(),
	}
	if snap, ok := d.workflow.Confirmation(); ok {
		view.Confirmation = &snap
	}
	return view
}
