package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/app/service"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, config.JWTConfig{
		Secret:             "test-secret-key",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, router
}

func TestAuthController_Register_Success(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	// Password material never leaves the server
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)
}

func TestAuthController_Register_InvalidBody(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	// Password below the minimum length
	body, _ := json.Marshal(map[string]string{
		"email":    "short@example.com",
		"password": "short",
		"name":     "Short",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Name:     "First",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthController_Login(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)

	registerBody, _ := json.Marshal(RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login User",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	loginBody, _ := json.Marshal(LoginRequest{Email: "login@example.com", Password: "password123"})
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	wrongBody, _ := json.Marshal(LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(wrongBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_GetMe(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "me@example.com",
		Password: "password123",
		Name:     "Me",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	userID := uint(created["user"].(map[string]interface{})["id"].(float64))

	router.GET("/me", func(c *gin.Context) {
		setUserIDInContext(c, userID)
		controller.GetMe(c)
	})

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "me@example.com", response["user"].(map[string]interface{})["email"])
}

func TestAuthController_GetMe_Unauthenticated(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.GET("/me", controller.GetMe)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
