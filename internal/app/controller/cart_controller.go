package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/emartin/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
	sessionCfg  config.SessionConfig
}

func NewCartController(cartService service.CartService, sessionCfg config.SessionConfig) *CartController {
	return &CartController{
		cartService: cartService,
		sessionCfg:  sessionCfg,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// resolveOwner identifies the cart owner. Authenticated requests use
// the user id; anonymous requests use the session cookie, minting one
// on first touch.
func (ctrl *CartController) resolveOwner(c *gin.Context) model.CartOwner {
	if userID, ok := middleware.GetUserID(c); ok {
		return model.UserOwner(userID)
	}

	sessionID, err := c.Cookie(ctrl.sessionCfg.CookieName)
	if err != nil || sessionID == "" {
		sessionID = util.GenerateSessionID()
		ctrl.setSessionCookie(c, sessionID)
	}
	return model.SessionOwner(sessionID)
}

func (ctrl *CartController) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		ctrl.sessionCfg.CookieName,
		sessionID,
		int(ctrl.sessionCfg.MaxAge.Seconds()),
		"/",
		"",
		ctrl.sessionCfg.CookieSecure,
		true,
	)
}

func (ctrl *CartController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(ctrl.sessionCfg.CookieName, "", -1, "/", "", ctrl.sessionCfg.CookieSecure, true)
}

// GetCart returns the caller's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := ctrl.resolveOwner(c)

	cart, err := ctrl.cartService.GetCart(owner)
	if err != nil {
		log.Error("Failed to fetch cart", err, nil)
		apperrors.InternalError(c, "failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}

// AddItem puts a product into the cart. An existing line's quantity is
// replaced, not incremented.
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := ctrl.resolveOwner(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	cart, err := ctrl.cartService.AddItem(owner, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, req.ProductID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusCreated, gin.H{
		"cart": cart,
	})
}

// UpdateItem sets the quantity of an existing cart line
// PUT /api/v1/cart/items/:productId
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := ctrl.resolveOwner(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	cart, err := ctrl.cartService.UpdateItem(owner, productID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, productID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// RemoveItem deletes a cart line. Removing an absent product succeeds.
// DELETE /api/v1/cart/items/:productId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	owner := ctrl.resolveOwner(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(owner, productID)
	if err != nil {
		ctrl.respondCartError(c, err, productID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := ctrl.resolveOwner(c)

	if err := ctrl.cartService.ClearCart(owner); err != nil {
		log.Error("Failed to clear cart", err, nil)
		apperrors.InternalError(c, "failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart cleared",
	})
}

// TransferCart moves the guest cart onto the authenticated user and
// retires the session cookie.
// POST /api/v1/cart/transfer
func (ctrl *CartController) TransferCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	sessionID, err := c.Cookie(ctrl.sessionCfg.CookieName)
	if err != nil || sessionID == "" {
		// No guest session; nothing to transfer.
		cart, err := ctrl.cartService.GetCart(model.UserOwner(userID))
		if err != nil {
			apperrors.InternalError(c, "failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
		return
	}

	cart, err := ctrl.cartService.TransferGuestCart(sessionID, userID)
	if err != nil {
		// The cookie survives a failed transfer.
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "no guest cart to transfer")
			return
		}
		log.Error("Failed to transfer guest cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "failed to transfer cart")
		return
	}

	ctrl.clearSessionCookie(c)

	log.Info("Guest cart transferred", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, productID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "quantity must be at least 1")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.StockInsufficient, "not enough stock for the requested quantity")
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "cart not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "item is not in the cart")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
	}
}

// parseIDParam reads a numeric path parameter, responding 400 itself
// on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
