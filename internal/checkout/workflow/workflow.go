// Package workflow drives the three stage checkout wizard: Shipping, Payment,
// Confirmation. A draft lives in memory only; it is created fresh when the
// checkout starts and discarded on completion or abandonment, never persisted
// across restarts.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
	inOtel "github.com/smartaero/storefront/internal/otel"
)

var tracer = otel.Tracer("checkout/workflow")

// ShippingFields are the nine required shipping inputs. Validation is
// presence only; no format checks are applied.
type ShippingFields struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
	Phone     string `json:"phone"     validate:"required"`
	Address   string `json:"address"   validate:"required"`
	City      string `json:"city"      validate:"required"`
	State     string `json:"state"     validate:"required"`
	ZipCode   string `json:"zipCode"   validate:"required"`
	Country   string `json:"country"   validate:"required"`
}

// PaymentFields are the four required payment inputs. No Luhn check, no
// expiry parsing; presence only.
type PaymentFields struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	CardName   string `json:"cardName"   validate:"required"`
	Expiry     string `json:"expiry"     validate:"required"`
	CVV        string `json:"cvv"        validate:"required"`
}

// OrderSnapshot is the cart state captured the instant the order is placed,
// before the live cart is cleared. The confirmation stage renders from it and
// never re-reads the cart.
type OrderSnapshot struct {
	Items      []store.Line    `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Shipping   ShippingFields  `json:"shipping"`
	CapturedAt time.Time       `json:"capturedAt"`
}

type Workflow struct {
	mu       sync.Mutex
	stage    Stage
	shipping ShippingFields
	payment  PaymentFields
	cart     *store.Store
	snapshot *OrderSnapshot
	validate *validator.Validate
}

func New(cart *store.Store) *Workflow {
	return &Workflow{
		cart:     cart,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// SetShipping replaces the shipping fields. Validity is recomputed on every
// read, so there is nothing else to invalidate.
func (w *Workflow) SetShipping(f ShippingFields) {
	w.mu.Lock()
	w.shipping = f
	w.mu.Unlock()
}

func (w *Workflow) SetPayment(f PaymentFields) {
	w.mu.Lock()
	w.payment = f
	w.mu.Unlock()
}

// IsStepValid reports whether every required field of the given stage is
// non-empty. The confirmation stage has no inputs and is always valid.
func (w *Workflow) IsStepValid(stage Stage) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isStepValidLocked(stage)
}

func (w *Workflow) isStepValidLocked(stage Stage) bool {
	switch stage {
	case StageShipping:
		return w.validate.Struct(w.shipping) == nil
	case StagePayment:
		return w.validate.Struct(w.payment) == nil
	}
	return true
}

// Next advances to the following stage if the current one is valid. The
// stage index only ever moves one step at a time.
//
// On the Payment to Confirmation transition the order is considered placed:
// the cart is snapshotted together with the shipping fields and then cleared.
// There is no payment capture step in front of the clear. Placement happens
// at most once, so coming back from the confirmation stage and submitting
// again neither re-clears the cart nor overwrites the snapshot.
func (w *Workflow) Next(c context.Context) error {
	c, span := tracer.Start(c, "CheckoutWorkflow Next")
	defer span.End()

	w.mu.Lock()
	stage := w.stage

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutWorkflow Next").
		Str(log.KeyStage, stage.String()).
		Logger()

	if stage.IsTerminal() {
		w.mu.Unlock()
		err := fmt.Errorf("failed advancing checkout with error=%w", errors.ErrAlreadyConfirmed)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if !w.isStepValidLocked(stage) {
		w.mu.Unlock()
		err := fmt.Errorf("failed advancing from stage=%s with error=%w", stage, errors.ErrStageInvalid)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}

	placing := stage == StagePayment && w.snapshot == nil
	if placing {
		items := w.cart.Items()
		w.snapshot = &OrderSnapshot{
			Items:      items,
			Total:      w.cart.Total(),
			Shipping:   w.shipping,
			CapturedAt: time.Now(),
		}
	}
	w.stage = stage + 1
	w.mu.Unlock()

	if placing {
		logger.Info().
			Str(log.KeyProcess, "placing order").
			Msg("captured order snapshot, clearing cart")
		w.cart.Clear(c)
		logger.Info().
			Str(log.KeyProcess, "placing order").
			Msg("cleared cart")
	}

	logger.Info().Str(log.KeyStage, (stage + 1).String()).Msg("advanced checkout stage")
	return nil
}

// Back moves one stage backward. It is always allowed, performs no
// validation, and neither restores nor re-clears the cart. At the shipping
// stage it is a no-op.
func (w *Workflow) Back(c context.Context) {
	_, span := tracer.Start(c, "CheckoutWorkflow Back")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutWorkflow Back").
		Logger()

	w.mu.Lock()
	if w.stage > StageShipping {
		w.stage--
	}
	stage := w.stage
	w.mu.Unlock()

	logger.Info().Str(log.KeyStage, stage.String()).Msg("moved checkout stage backward")
}

// Confirmation returns the retained order snapshot. The second return value
// is false until the order has been placed.
func (w *Workflow) Confirmation() (OrderSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snapshot == nil {
		return OrderSnapshot{}, false
	}
	return *w.snapshot, true
}

// Shipping returns the current shipping fields.
func (w *Workflow) Shipping() ShippingFields {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shipping
}
