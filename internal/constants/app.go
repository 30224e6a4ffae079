package constants

const (
	AppStorefrontService = "storefront-service"

	AudienceStorefront = "storefront"
)
