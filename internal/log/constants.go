package log

const (
	KeyAppName       = "app"
	KeyTag           = "tag"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyConfig        = "config"
	KeyEmail         = "email"
	KeyOwnerID       = "ownerId"
	KeyProductID     = "productId"
	KeyQuantity      = "quantity"
	KeyCart          = "cart"
	KeyCartItems     = "cartItems"
	KeyCartTotal     = "cartTotal"
	KeyDraftID       = "draftId"
	KeyStage         = "stage"
	KeyUserID        = "userId"
	KeyDeviceID      = "deviceId"
	KeySessionEvent  = "sessionEvent"
	KeyGuardDecision = "guardDecision"
	KeySnapshotKey   = "snapshotKey"
	KeyCategory      = "category"
	KeySearch        = "search"
	KeySubject       = "subject"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIP     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyPathValues    = "pathValues"
)
