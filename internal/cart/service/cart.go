package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/cart/store"
	"github.com/smartaero/storefront/cart/pkg/response"
	catalogService "github.com/smartaero/storefront/internal/catalog/service"
	commonErrors "github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("cart/service")

type CartService struct {
	carts   *store.Registry
	catalog catalogService.CatalogService
}

func NewCartService(carts *store.Registry, catalog catalogService.CatalogService) CartService {
	return CartService{carts: carts, catalog: catalog}
}

// AddItem looks the product up in the catalog and merges it into the owner's
// cart. The product itself carries no quantity; adding always means +1.
func (s CartService) AddItem(
	c context.Context,
	ownerID string,
	productID string,
) (response.Cart, error) {
	c, span := tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyOwnerID, ownerID).
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product in catalog")
	product, err := s.catalog.FindProductById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found product in catalog")

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	cart.AddItem(c, store.Product{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		ImageRef:  product.ImageRef,
	})
	logger.Info().Msg("added item to cart")

	return response.FromStore(ownerID, cart), nil
}

func (s CartService) RemoveItem(
	c context.Context,
	ownerID string,
	productID string,
) (response.Cart, error) {
	c, span := tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyOwnerID, ownerID).
		Str(log.KeyProductID, productID).
		Logger()

	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger.Info().Msg("removing item from cart")
	cart.RemoveItem(c, productID)
	logger.Info().Msg("removed item from cart")

	return response.FromStore(ownerID, cart), nil
}

// UpdateQuantity clamps negative quantities to zero before handing them to
// the store, where zero means removal.
func (s CartService) UpdateQuantity(
	c context.Context,
	ownerID string,
	productID string,
	quantity int,
) (response.Cart, error) {
	c, span := tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyOwnerID, ownerID).
		Str(log.KeyProductID, productID).
		Int(log.KeyQuantity, quantity).
		Logger()

	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	if quantity < 0 {
		quantity = 0
	}
	logger.Info().Msg("updating item quantity")
	cart.UpdateQuantity(c, productID, quantity)
	logger.Info().Msg("updated item quantity")

	return response.FromStore(ownerID, cart), nil
}

func (s CartService) ClearCart(c context.Context, ownerID string) (response.Cart, error) {
	c, span := tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyOwnerID, ownerID).
		Logger()

	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger.Info().Msg("clearing cart")
	cart.Clear(c)
	logger.Info().Msg("cleared cart")

	return response.FromStore(ownerID, cart), nil
}

func (s CartService) FindCart(c context.Context, ownerID string) (response.Cart, error) {
	c, span := tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyOwnerID, ownerID).
		Logger()

	cart, err := s.carts.Cart(c, ownerID)
	if err != nil {
		err = fmt.Errorf("failed getting cart for ownerId=%s with error=%w", ownerID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	return response.FromStore(ownerID, cart), nil
}
