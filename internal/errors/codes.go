package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or tampered token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token was logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"      // no access to resource
	AuthzAdminOnly      = "AUTHZ_ADMIN_ONLY"     // admin role required
	AuthzSuperadminOnly = "AUTHZ_SUPERADMIN_ONLY" // superadmin role required
	AuthzOwnerOnly      = "AUTHZ_OWNER_ONLY"     // resource owner required

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // bad request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // non-numeric or missing id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong field format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // value out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // generic not found
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate
	ResourceConflict      = "RESOURCE_CONFLICT"       // state conflict

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"         // product missing
	ProductInvalidCategory = "PRODUCT_INVALID_CATEGORY"  // unknown category
	ProductOutOfStock      = "PRODUCT_OUT_OF_STOCK"      // zero stock

	// ==================== Cart (CART_) ====================
	CartNotFound        = "CART_NOT_FOUND"         // cart missing
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"    // line item missing
	CartInvalidQuantity = "CART_INVALID_QUANTITY"  // quantity < 1
	CartSessionRequired = "CART_SESSION_REQUIRED"  // no user and no guest session

	// ==================== Order (ORDER_) ====================
	OrderNotFound         = "ORDER_NOT_FOUND"          // order missing
	OrderEmpty            = "ORDER_EMPTY"              // no line items
	OrderInvalidStatus    = "ORDER_INVALID_STATUS"     // unknown status value
	OrderAlreadyDelivered = "ORDER_ALREADY_DELIVERED"  // cannot cancel delivered order
	OrderAlreadyCancelled = "ORDER_ALREADY_CANCELLED"  // order already cancelled

	// ==================== Stock (STOCK_) ====================
	StockInsufficient = "STOCK_INSUFFICIENT" // requested quantity exceeds stock

	// ==================== Review (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"      // review missing
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // rating outside 1..5
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one review per user per product

	// ==================== Delivery (DELIVERY_) ====================
	DeliveryOptionNotFound = "DELIVERY_OPTION_NOT_FOUND" // delivery option missing

	// ==================== Notification (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // notification missing

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database failure
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // bad configuration
)
