package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/app/service"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo, testDB)
	cartController := NewCartController(cartService, config.SessionConfig{
		CookieName:   "session_id",
		MaxAge:       7 * 24 * time.Hour,
		CookieSecure: false,
	})

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Test Product",
		Price:         30.00,
		Category:      model.CategoryElectronics,
		StockQuantity: 10,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	return nil
}

func TestCartController_AddItem_Authenticated(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Cart.Items, 1)
	assert.Equal(t, 2, response.Cart.Items[0].Quantity)
	assert.InDelta(t, 60.00, response.Cart.Total, 0.001)

	// Authenticated requests never mint a session cookie
	assert.Nil(t, sessionCookie(t, w))
}

func TestCartController_AddItem_GuestMintsSessionCookie(t *testing.T) {
	controller, router, _, _, product := setupCartControllerTest(t)

	router.POST("/cart/items", controller.AddItem)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestCartController_GetCart_GuestReusesCookie(t *testing.T) {
	controller, router, _, _, product := setupCartControllerTest(t)

	router.POST("/cart/items", controller.AddItem)
	router.GET("/cart", controller.GetCart)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 3})
	addReq := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	addReq.Header.Set("Content-Type", "application/json")
	addW := httptest.NewRecorder()
	router.ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusCreated, addW.Code)

	cookie := sessionCookie(t, addW)
	require.NotNil(t, cookie)

	getReq := httptest.NewRequest(http.MethodGet, "/cart", nil)
	getReq.AddCookie(cookie)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)

	assert.Equal(t, http.StatusOK, getW.Code)

	var response struct {
		Cart  model.Cart `json:"cart"`
		Count int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Cart.Items, 1)
	assert.Equal(t, 3, response.Cart.Items[0].Quantity)
}

func TestCartController_AddItem_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 100})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddItem_UnknownProduct(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ProductID: 9999, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateItem_MissingLine(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.PUT("/cart/items/:productId", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	body, _ := json.Marshal(UpdateCartItemRequest{Quantity: 2})
	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+strconv.Itoa(int(product.ID)), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_RemoveItem_AbsentProductSucceeds(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})
	router.DELETE("/cart/items/:productId", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	addReq := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	addReq.Header.Set("Content-Type", "application/json")
	addW := httptest.NewRecorder()
	router.ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusCreated, addW.Code)

	// Removing a product the cart never held still succeeds
	req := httptest.NewRequest(http.MethodDelete, "/cart/items/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_RemoveItem_NoCart(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.DELETE("/cart/items/:productId", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	// The user never touched a cart, so the cart row itself is missing
	req := httptest.NewRequest(http.MethodDelete, "/cart/items/"+strconv.Itoa(int(product.ID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_TransferCart(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", controller.AddItem)
	router.POST("/cart/transfer", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.TransferCart(c)
	})

	// Guest adds an item
	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	addReq := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	addReq.Header.Set("Content-Type", "application/json")
	addW := httptest.NewRecorder()
	router.ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusCreated, addW.Code)

	cookie := sessionCookie(t, addW)
	require.NotNil(t, cookie)

	// Then logs in and transfers
	transferReq := httptest.NewRequest(http.MethodPost, "/cart/transfer", nil)
	transferReq.AddCookie(cookie)
	transferW := httptest.NewRecorder()
	router.ServeHTTP(transferW, transferReq)

	assert.Equal(t, http.StatusOK, transferW.Code)

	var response struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(transferW.Body.Bytes(), &response))
	require.Len(t, response.Cart.Items, 1)
	require.NotNil(t, response.Cart.UserID)
	assert.Equal(t, user.ID, *response.Cart.UserID)

	// The session cookie is retired
	cleared := sessionCookie(t, transferW)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// And the guest cart is gone
	var count int64
	testDB.Model(&model.Cart{}).Where("session_id IS NOT NULL").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartController_TransferCart_NoGuestCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/transfer", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.TransferCart(c)
	})

	// A cookie pointing at a session that never built a cart
	req := httptest.NewRequest(http.MethodPost, "/cart/transfer", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The session cookie is not cleared on failure
	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, "session_id", cookie.Name)
	}
}

func TestCartController_TransferCart_NoCookie(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/transfer", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.TransferCart(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/transfer", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
