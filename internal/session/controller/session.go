package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	commonErrors "github.com/smartaero/storefront/internal/errors"
	inHttp "github.com/smartaero/storefront/internal/http"
	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/session/guard"
	"github.com/smartaero/storefront/internal/session/mirror"
	"github.com/smartaero/storefront/session/pkg/request"
	"github.com/smartaero/storefront/session/pkg/response"
)

var tracer = otel.Tracer("session/controller")

type SessionController struct {
	mirrors *mirror.Registry
	guard   guard.Guard
}

func AttachSessionController(router *mux.Router, mirrors *mirror.Registry, g guard.Guard) {
	controller := SessionController{mirrors: mirrors, guard: g}

	r := router.PathPrefix("/sessions/{deviceId}").Subrouter()
	r.HandleFunc("", controller.FindSession).Methods(http.MethodGet)
	r.HandleFunc("/events", controller.ApplyEvent).Methods(http.MethodPost)
	r.HandleFunc("/signout", controller.SignOut).Methods(http.MethodPost)
	r.HandleFunc("/guard", controller.CheckGuard).Methods(http.MethodPost)
}

func (t SessionController) FindSession(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "SessionController FindSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController FindSession").
		Logger()

	deviceID := mux.Vars(r)["deviceId"]
	logger = logger.With().
		Str(log.KeyDeviceID, deviceID).
		Str(log.KeyProcess, "finding session").
		Logger()

	logger.Info().Msg("finding session")
	c = logger.WithContext(c)
	m, err := t.mirrors.Mirror(c, deviceID)
	if err != nil {
		err = fmt.Errorf("failed finding session with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found session")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found session",
		"data": map[string]interface{}{
			"session": response.FromMirror(deviceID, m),
		},
	})
}

func (t SessionController) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "SessionController ApplyEvent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController ApplyEvent").
		Logger()

	deviceID := mux.Vars(r)["deviceId"]
	logger = logger.With().Str(log.KeyDeviceID, deviceID).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.SessionEvent{}
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
		Str(log.KeyProcess, "applying session event").
		Str(log.KeySessionEvent, reqBody.Kind).
		Logger()
	logger.Info().Msg("applying session event")
	c = logger.WithContext(c)
	m, err := t.mirrors.Mirror(c, deviceID)
	if err != nil {
		err = fmt.Errorf("failed applying session event with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	m.Apply(c, reqBody.Event())
	logger.Info().Msg("applied session event")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully applied session event",
		"data": map[string]interface{}{
			"session": response.FromMirror(deviceID, m),
		},
	})
}

func (t SessionController) SignOut(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "SessionController SignOut")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController SignOut").
		Logger()

	deviceID := mux.Vars(r)["deviceId"]
	logger = logger.With().
		Str(log.KeyDeviceID, deviceID).
		Str(log.KeyProcess, "signing out").
		Logger()

	logger.Info().Msg("signing out")
	c = logger.WithContext(c)
	m, err := t.mirrors.Mirror(c, deviceID)
	if err != nil {
		err = fmt.Errorf("failed signing out with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	m.SignOut(c)
	logger.Info().Msg("signed out")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully signed out",
		"data": map[string]interface{}{
			"session": response.FromMirror(deviceID, m),
		},
	})
}

func (t SessionController) CheckGuard(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "SessionController CheckGuard")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController CheckGuard").
		Logger()

	deviceID := mux.Vars(r)["deviceId"]
	logger = logger.With().Str(log.KeyDeviceID, deviceID).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.GuardCheck{}
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

	logger = logger.With().Str(log.KeyProcess, "checking route access").Logger()
	logger.Info().Msg("checking route access")
	c = logger.WithContext(c)
	m, err := t.mirrors.Mirror(c, deviceID)
	if err != nil {
		err = fmt.Errorf("failed checking route access with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	decision := t.guard.Check(c, m.User(), guard.Route{
		RequiresAuth: reqBody.RequiresAuth,
		AdminOnly:    reqBody.AdminOnly,
		Roles:        reqBody.Roles,
	})
	logger.Info().Str(log.KeyGuardDecision, string(decision)).Msg("checked route access")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully checked route access",
		"data": map[string]interface{}{
			"decision": decision,
		},
	})
}
