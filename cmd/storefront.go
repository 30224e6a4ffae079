package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel"

	adminController "github.com/smartaero/storefront/internal/admin/controller"
	adminService "github.com/smartaero/storefront/internal/admin/service"
	cartController "github.com/smartaero/storefront/internal/cart/controller"
	cartService "github.com/smartaero/storefront/internal/cart/service"
	"github.com/smartaero/storefront/internal/cart/store"
	catalogController "github.com/smartaero/storefront/internal/catalog/controller"
	catalogService "github.com/smartaero/storefront/internal/catalog/service"
	checkoutController "github.com/smartaero/storefront/internal/checkout/controller"
	checkoutService "github.com/smartaero/storefront/internal/checkout/service"
	contactController "github.com/smartaero/storefront/internal/contact/controller"
	contactService "github.com/smartaero/storefront/internal/contact/service"
	"github.com/smartaero/storefront/internal/config"
	"github.com/smartaero/storefront/internal/constants"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/infra"
	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/middleware"
	inOtel "github.com/smartaero/storefront/internal/otel"
	"github.com/smartaero/storefront/internal/snapshot"
	sessionController "github.com/smartaero/storefront/internal/session/controller"
	"github.com/smartaero/storefront/internal/session/guard"
	"github.com/smartaero/storefront/internal/session/identity"
	"github.com/smartaero/storefront/internal/session/mirror"
)

var tracer = otel.Tracer("cmd/storefront")

func RunStorefrontService(c context.Context) {
	c, span := tracer.Start(c, "RunStorefrontService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppStorefrontService).
		Str(log.KeyTag, "main RunStorefrontService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppStorefrontService)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := inOtel.InitOtelSdk(c, constants.AppStorefrontService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := inOtel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing snapshot storage").Logger()
	logger.Info().Msg("initializing snapshot storage")
	snapshots := snapshot.NewRedisStore(cache)
	logger.Info().Msg("initialized snapshot storage")

	logger = logger.With().Str(log.KeyProcess, "initializing registries").Logger()
	logger.Info().Msg("initializing registries")
	carts := store.NewRegistry(snapshots)
	provider := identity.NewHttpProvider(cfg.Identity)
	mirrors := mirror.NewRegistry(provider, snapshots)
	go func() {
		watchCtx := logger.WithContext(c)
		if err := carts.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("cart snapshot watcher stopped")
		}
	}()
	go func() {
		watchCtx := logger.WithContext(c)
		if err := mirrors.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("session snapshot watcher stopped")
		}
	}()
	logger.Info().Msg("initialized registries")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	catalogSvc := catalogService.NewCatalogService()
	cartSvc := cartService.NewCartService(carts, catalogSvc)
	checkoutSvc := checkoutService.NewCheckoutService(carts)
	contactSvc := contactService.NewContactService(cfg.Email)
	adminSvc := adminService.NewAdminService(catalogSvc)
	sessionGuard := guard.New(cfg.Application.AdminEmail)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppStorefrontService),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	catalogController.AttachCatalogController(router, catalogSvc)
	cartController.AttachCartController(router, cartSvc)
	checkoutController.AttachCheckoutController(router, checkoutSvc)
	sessionController.AttachSessionController(router, mirrors, sessionGuard)
	contactController.AttachContactController(router, contactSvc)

	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Application.SecretKey))
	adminController.AttachAdminController(protected, adminSvc, cfg.Application.AdminEmail)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
