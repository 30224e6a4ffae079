package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/admin/service"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	inHttp "github.com/smartaero/storefront/internal/http"
	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/token"
)

var tracer = otel.Tracer("admin/controller")

type AdminController struct {
	service    service.AdminService
	adminEmail string
}

// AttachAdminController mounts the admin surface. The router passed in is
// expected to already require a verified bearer token; this controller only
// adds the admin email check on top.
func AttachAdminController(router *mux.Router, svc service.AdminService, adminEmail string) {
	controller := AdminController{service: svc, adminEmail: adminEmail}

	r := router.PathPrefix("/admin").Subrouter()
	r.HandleFunc("/analytics", controller.Analytics).Methods(http.MethodGet)
	r.HandleFunc("/orders", controller.Orders).Methods(http.MethodGet)
	r.HandleFunc("/customers", controller.Customers).Methods(http.MethodGet)
	r.HandleFunc("/products", controller.Products).Methods(http.MethodGet)
}

func (t AdminController) requireAdmin(
	w http.ResponseWriter,
	r *http.Request,
) (*token.Claims, bool) {
	c := r.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController requireAdmin").
		Logger()

	claims, ok := token.ClaimsFromContext(c)
	if !ok {
		err := fmt.Errorf("missing claims with error=%w", commonErrors.ErrEmptyAuth)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return nil, false
	}
	if !strings.EqualFold(claims.Email, t.adminEmail) {
		err := fmt.Errorf("email=%s with error=%w", claims.Email, commonErrors.ErrNotAdmin)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusForbidden,
			"message":    err.Error(),
		})
		return nil, false
	}
	return claims, true
}

func (t AdminController) Analytics(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "AdminController Analytics")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Analytics").
		Logger()

	if _, ok := t.requireAdmin(w, r); !ok {
		return
	}

	period := service.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = service.PeriodDaily
	}
	logger = logger.With().
		Str(log.KeyProcess, "generating analytics").
		Str(log.KeyStage, string(period)).
		Logger()

	logger.Info().Msg("generating analytics")
	c = logger.WithContext(c)
	analytics, err := t.service.Analytics(c, period)
	if err != nil {
		err = fmt.Errorf("failed generating analytics with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("generated analytics")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully generated analytics",
		"data": map[string]interface{}{
			"analytics": analytics,
		},
	})
}

func (t AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "AdminController Orders")
	defer span.End()
	r = r.WithContext(c)

	if _, ok := t.requireAdmin(w, r); !ok {
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed orders",
		"data": map[string]interface{}{
			"orders": t.service.Orders(c),
		},
	})
}

func (t AdminController) Customers(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "AdminController Customers")
	defer span.End()
	r = r.WithContext(c)

	if _, ok := t.requireAdmin(w, r); !ok {
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed customers",
		"data": map[string]interface{}{
			"customers": t.service.Customers(c),
		},
	})
}

func (t AdminController) Products(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "AdminController Products")
	defer span.End()
	r = r.WithContext(c)

	if _, ok := t.requireAdmin(w, r); !ok {
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed products",
		"data": map[string]interface{}{
			"products": t.service.Products(c),
		},
	})
}
