package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/checkout/service"
	"github.com/smartaero/storefront/checkout/pkg/request"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	inHttp "github.com/smartaero/storefront/internal/http"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("checkout/controller")

type CheckoutController struct {
	service *service.CheckoutService
}

func AttachCheckoutController(router *mux.Router, svc *service.CheckoutService) {
	controller := CheckoutController{service: svc}

	r := router.PathPrefix("/checkouts").Subrouter()
	r.HandleFunc("", controller.Start).Methods(http.MethodPost)
	r.HandleFunc("/{draftId}", controller.Find).Methods(http.MethodGet)
	r.HandleFunc("/{draftId}", controller.Abandon).Methods(http.MethodDelete)
	r.HandleFunc("/{draftId}/shipping", controller.SubmitShipping).Methods(http.MethodPut)
	r.HandleFunc("/{draftId}/payment", controller.SubmitPayment).Methods(http.MethodPut)
	r.HandleFunc("/{draftId}/back", controller.Back).Methods(http.MethodPost)
}

func (t CheckoutController) Start(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController Start")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Start").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.StartCheckout{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "starting checkout").
		Str(log.KeyOwnerID, reqBody.OwnerID).
		Logger()
	logger.Info().Msg("starting checkout")
	c = logger.WithContext(c)
	checkout, err := t.service.Start(c, reqBody.OwnerID)
	if err != nil {
		err = fmt.Errorf("failed starting checkout with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("started checkout")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully started checkout",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) Find(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController Find")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Find").
		Logger()

	draftID := mux.Vars(r)["draftId"]
	logger = logger.With().
		Str(log.KeyDraftID, draftID).
		Str(log.KeyProcess, "finding checkout").
		Logger()

	logger.Info().Msg("finding checkout")
	c = logger.WithContext(c)
	checkout, err := t.service.Find(c, draftID)
	if err != nil {
		err = fmt.Errorf("failed finding checkout with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrDraftNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found checkout")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found checkout",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController SubmitShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController SubmitShipping").
		Logger()

	draftID := mux.Vars(r)["draftId"]
	logger = logger.With().Str(log.KeyDraftID, draftID).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Shipping{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "submitting shipping").Logger()
	logger.Info().Msg("submitting shipping")
	c = logger.WithContext(c)
	checkout, err := t.service.SubmitShipping(c, draftID, reqBody.Fields())
	if err != nil {
		err = fmt.Errorf("failed submitting shipping with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": checkoutStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("submitted shipping")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully submitted shipping",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController SubmitPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController SubmitPayment").
		Logger()

	draftID := mux.Vars(r)["draftId"]
	logger = logger.With().Str(log.KeyDraftID, draftID).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Payment{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "submitting payment").Logger()
	logger.Info().Msg("submitting payment")
	c = logger.WithContext(c)
	checkout, err := t.service.SubmitPayment(c, draftID, reqBody.Fields())
	if err != nil {
		err = fmt.Errorf("failed submitting payment with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": checkoutStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("submitted payment")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully submitted payment",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) Back(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController Back")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Back").
		Logger()

	draftID := mux.Vars(r)["draftId"]
	logger = logger.With().
		Str(log.KeyDraftID, draftID).
		Str(log.KeyProcess, "going back a stage").
		Logger()

	logger.Info().Msg("going back a stage")
	c = logger.WithContext(c)
	checkout, err := t.service.Back(c, draftID)
	if err != nil {
		err = fmt.Errorf("failed going back a stage with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrDraftNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("went back a stage")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully went back a stage",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) Abandon(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CheckoutController Abandon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Abandon").
		Logger()

	draftID := mux.Vars(r)["draftId"]
	logger = logger.With().
		Str(log.KeyDraftID, draftID).
		Str(log.KeyProcess, "abandoning checkout").
		Logger()

	logger.Info().Msg("abandoning checkout")
	c = logger.WithContext(c)
	if err := t.service.Abandon(c, draftID); err != nil {
		err = fmt.Errorf("failed abandoning checkout with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrDraftNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("abandoned checkout")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully abandoned checkout",
	})
}

func checkoutStatusCode(err error) int {
	switch {
	case errors.Is(err, commonErrors.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, commonErrors.ErrStageInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commonErrors.ErrAlreadyConfirmed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
