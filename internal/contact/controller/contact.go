package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/contact/service"
	"github.com/smartaero/storefront/contact/pkg/request"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	inHttp "github.com/smartaero/storefront/internal/http"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("contact/controller")

type ContactController struct {
	service service.ContactService
}

func AttachContactController(router *mux.Router, svc service.ContactService) {
	controller := ContactController{service: svc}

	router.HandleFunc("/contact", controller.SendContactEmail).Methods(http.MethodPost)
}

func (t ContactController) SendContactEmail(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "ContactController SendContactEmail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController SendContactEmail").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.ContactMessage{}
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
		Str(log.KeyProcess, "sending contact email").
		Str(log.KeySubject, reqBody.Subject).
		Logger()
	logger.Info().Msg("sending contact email")
	c = logger.WithContext(c)
	if err := t.service.SendContactEmail(c, reqBody); err != nil {
		err = fmt.Errorf("failed sending contact email with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadGateway,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("sent contact email")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully sent contact email",
	})
}
