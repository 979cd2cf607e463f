package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a low-level error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts database and driver errors into user-facing codes.
// Sensitive details stay out of the message; the code tells the client
// enough to react.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "an internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	// 3. Network / connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "a backing service is unavailable, please try again later",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "this email address is already registered",
		}
	}

	if strings.Contains(errLower, "idx_product_user_review") {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "you have already reviewed this product",
		}
	}

	if strings.Contains(errLower, "idx_cart_product") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "this product is already in the cart",
		}
	}

	if strings.Contains(errLower, "delivery_options") || strings.Contains(errLower, "idx_delivery_options_name") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "a delivery option with this name already exists",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "this record already exists, please retry",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "this record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "product") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "this product is referenced by existing orders and cannot be deleted",
			}
		}
		if strings.Contains(context, "user") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "this user has linked records and cannot be deleted",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "linked records exist, deletion is not possible",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "the referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "the referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "order_id") || strings.Contains(errLower, "fk_orders") {
		return ErrorInfo{
			Code:    OrderNotFound,
			Message: "the referenced order does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "a referenced record does not exist",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "password is required"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "name is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "a required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "rating must be between 1 and 5",
		}
	}

	if strings.Contains(errLower, "quantity") {
		return ErrorInfo{
			Code:    CartInvalidQuantity,
			Message: "quantity must be at least 1",
		}
	}

	if strings.Contains(errLower, "stock") {
		return ErrorInfo{
			Code:    StockInsufficient,
			Message: "stock cannot go below zero",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "the provided value is not valid",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "product not found"
	}
	if strings.Contains(contextLower, "user") {
		return "user not found"
	}
	if strings.Contains(contextLower, "cart") {
		return "cart not found"
	}
	if strings.Contains(contextLower, "order") {
		return "order not found"
	}
	if strings.Contains(contextLower, "review") {
		return "review not found"
	}
	if strings.Contains(contextLower, "delivery") {
		return "delivery option not found"
	}
	if strings.Contains(contextLower, "notification") {
		return "notification not found"
	}

	return "the requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "creation failed, please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "update failed, please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "deletion failed, please try again later"
	}
	if strings.Contains(contextLower, "checkout") {
		return "checkout failed, please try again later"
	}

	return "an internal error occurred, please try again later"
}
