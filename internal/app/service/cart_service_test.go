package service

import (
	"testing"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product
	product := &model.Product{
		Name:          "Test Product",
		Price:         49.99,
		Category:      model.CategoryElectronics,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_GetCart_Empty(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	// Missing cart reads as empty
	cart, err := cartService.GetCart(model.UserOwner(user.ID))
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0.0, cart.Total)

	// Nothing was persisted by the read
	var count int64
	testDB.Model(&model.Cart{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartService_AddItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 3)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, product.Price, cart.Items[0].UnitPrice)
	assert.InDelta(t, 3*product.Price, cart.Total, 0.001)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 100)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Cart stays untouched
	cart, err := cartService.GetCart(model.UserOwner(user.ID))
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_AddItem_ExistingLineReplacesQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	// Adding again replaces the quantity, it does not sum
	cart, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 5)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_KeepsOriginalPriceSnapshot(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 1)
	require.NoError(t, err)

	// Price changes after the line exists
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("price", 99.99)

	cart, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 49.99, cart.Items[0].UnitPrice)
	assert.InDelta(t, 2*49.99, cart.Total, 0.001)
}

func TestCartService_TotalFromSnapshots(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	second := &model.Product{
		Name:          "Second Product",
		Price:         10.00,
		Category:      model.CategoryBooks,
		StockQuantity: 5,
	}
	testDB.Create(second)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddItem(model.UserOwner(user.ID), second.ID, 3)
	require.NoError(t, err)

	// Catalog price changes do not affect the stored total
	testDB.Model(&model.Product{}).Where("id = ?", second.ID).Update("price", 500.00)

	cart, err := cartService.GetCart(model.UserOwner(user.ID))
	assert.NoError(t, err)
	assert.InDelta(t, 2*49.99+3*10.00, cart.Total, 0.001)
}

func TestCartService_UpdateItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.UpdateItem(model.UserOwner(user.ID), product.ID, 7)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestCartService_UpdateItem_NotFound(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateItem(model.UserOwner(user.ID), product.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateItem_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	_, err = cartService.UpdateItem(model.UserOwner(user.ID), product.ID, 100)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(model.UserOwner(user.ID), product.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0.0, cart.Total)
}

func TestCartService_RemoveItem_NoCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// A cart that cannot be loaded at all is an error, unlike a
	// missing line
	_, err := cartService.RemoveItem(model.UserOwner(user.ID), product.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_RemoveItem_AbsentLineIsNoop(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Cart exists but line does not
	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 1)
	require.NoError(t, err)
	cart, err := cartService.RemoveItem(model.UserOwner(user.ID), 9999)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	err = cartService.ClearCart(model.UserOwner(user.ID))
	assert.NoError(t, err)

	cart, err := cartService.GetCart(model.UserOwner(user.ID))
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0.0, cart.Total)
}

func TestCartService_GuestCart(t *testing.T) {
	cartService, _, product, _ := setupCartServiceTest(t)

	owner := model.SessionOwner("guest-session-1")
	cart, err := cartService.AddItem(owner, product.ID, 2)
	assert.NoError(t, err)
	assert.True(t, cart.IsGuest())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_TransferGuestCart_MergesQuantities(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	second := &model.Product{
		Name:          "Second Product",
		Price:         10.00,
		Category:      model.CategoryBooks,
		StockQuantity: 5,
	}
	testDB.Create(second)

	guest := model.SessionOwner("guest-session-2")

	// Guest cart: product x2, second x1
	_, err := cartService.AddItem(guest, product.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddItem(guest, second.ID, 1)
	require.NoError(t, err)

	// User cart: product x1
	_, err = cartService.AddItem(model.UserOwner(user.ID), product.ID, 1)
	require.NoError(t, err)

	cart, err := cartService.TransferGuestCart("guest-session-2", user.ID)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 2)

	quantities := map[uint]int{}
	for _, item := range cart.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 3, quantities[product.ID])
	assert.Equal(t, 1, quantities[second.ID])

	// The guest cart is gone; this is a move, not a copy
	_, err = cartService.GetCart(guest)
	assert.NoError(t, err)
	var count int64
	testDB.Model(&model.Cart{}).Where("session_id = ?", "guest-session-2").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartService_TransferGuestCart_GuestPriceWins(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	// User adds at the current price
	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 1)
	require.NoError(t, err)

	// Guest adds after a price change
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("price", 39.99)
	_, err = cartService.AddItem(model.SessionOwner("guest-session-3"), product.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.TransferGuestCart("guest-session-3", user.ID)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 39.99, cart.Items[0].UnitPrice)
}

func TestCartService_TransferGuestCart_NoGuestCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(model.UserOwner(user.ID), product.ID, 2)
	require.NoError(t, err)

	_, err = cartService.TransferGuestCart("never-used-session", user.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// The user's cart is left alone
	cart, err := cartService.GetCart(model.UserOwner(user.ID))
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_TransferGuestCart_EmptyGuestCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	// Guest cart exists but holds no lines
	guest := model.SessionOwner("guest-session-4")
	_, err := cartService.AddItem(guest, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.RemoveItem(guest, product.ID)
	require.NoError(t, err)

	_, err = cartService.TransferGuestCart("guest-session-4", user.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// The empty guest cart is not deleted by the failed transfer
	var count int64
	testDB.Model(&model.Cart{}).Where("session_id = ?", "guest-session-4").Count(&count)
	assert.Equal(t, int64(1), count)
}
