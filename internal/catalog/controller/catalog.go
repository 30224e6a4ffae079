package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/catalog/service"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	inHttp "github.com/smartaero/storefront/internal/http"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("catalog/controller")

type CatalogController struct {
	service service.CatalogService
}

func AttachCatalogController(router *mux.Router, svc service.CatalogService) {
	controller := CatalogController{service: svc}

	r := router.PathPrefix("/products").Subrouter()
	r.HandleFunc("", controller.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

func (t CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CatalogController ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ListProducts").
		Logger()

	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("search")
	logger = logger.With().
		Str(log.KeyProcess, "listing products").
		Str(log.KeyCategory, category).
		Str(log.KeySearch, query).
		Logger()

	logger.Info().Msg("listing products")
	c = logger.WithContext(c)
	products := t.service.ListProducts(c, category, query)
	logger.Info().Msg("listed products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed products",
		"data": map[string]interface{}{
			"products":   products,
			"categories": service.Categories,
		},
	})
}

func (t CatalogController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := tracer.Start(r.Context(), "CatalogController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindProductById").
		Logger()

	productID := mux.Vars(r)["productId"]
	logger = logger.With().
		Str(log.KeyProductID, productID).
		Str(log.KeyProcess, "finding product").
		Logger()

	logger.Info().Msg("finding product")
	c = logger.WithContext(c)
	product, err := t.service.FindProductById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found product",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}
