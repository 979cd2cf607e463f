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

func setupReviewServiceTest(t *testing.T) (ReviewService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewService := NewReviewService(reviewRepo, productRepo, testDB)

	user := &model.User{
		Email:        "reviewer@example.com",
		PasswordHash: "hash",
		Name:         "Reviewer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Test Product",
		Price:         25.00,
		Category:      model.CategoryBooks,
		StockQuantity: 5,
	}
	testDB.Create(product)

	return reviewService, user, product, testDB
}

func productRating(t *testing.T, testDB *gorm.DB, productID uint) (float64, int) {
	t.Helper()
	var product model.Product
	require.NoError(t, testDB.First(&product, productID).Error)
	return product.Rating, product.ReviewCount
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "Solid build")
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Solid build", review.Comment)

	rating, count := productRating(t, testDB, product.ID)
	assert.InDelta(t, 4.0, rating, 0.001)
	assert.Equal(t, 1, count)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewService, user, product, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.CreateReview(user.ID, product.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_CreateReview_ProductNotFound(t *testing.T) {
	reviewService, user, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, 9999, 3, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	reviewService, user, product, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 5, "Great")
	require.NoError(t, err)

	_, err = reviewService.CreateReview(user.ID, product.ID, 1, "Changed my mind")
	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestReviewService_RatingAggregation(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	second := &model.User{Email: "second@example.com", PasswordHash: "hash", Name: "Second", Role: model.RoleUser}
	testDB.Create(second)

	_, err := reviewService.CreateReview(user.ID, product.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(second.ID, product.ID, 2, "")
	require.NoError(t, err)

	rating, count := productRating(t, testDB, product.ID)
	assert.InDelta(t, 3.5, rating, 0.001)
	assert.Equal(t, 2, count)
}

func TestReviewService_UpdateReview_Owner(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 2, "Meh")
	require.NoError(t, err)

	updated, err := reviewService.UpdateReview(user.ID, model.RoleUser, review.ID, 5, "Grew on me")
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	rating, _ := productRating(t, testDB, product.ID)
	assert.InDelta(t, 5.0, rating, 0.001)
}

func TestReviewService_UpdateReview_Forbidden(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 3, "")
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	_, err = reviewService.UpdateReview(other.ID, model.RoleUser, review.ID, 1, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Admin may edit any review
	_, err = reviewService.UpdateReview(other.ID, model.RoleAdmin, review.ID, 1, "moderated")
	assert.NoError(t, err)
}

func TestReviewService_DeleteReview_RefreshesAggregates(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "")
	require.NoError(t, err)

	err = reviewService.DeleteReview(user.ID, model.RoleUser, review.ID)
	assert.NoError(t, err)

	rating, count := productRating(t, testDB, product.ID)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, count)
}

func TestReviewService_DeleteReview_NotFound(t *testing.T) {
	reviewService, user, _, _ := setupReviewServiceTest(t)

	err := reviewService.DeleteReview(user.ID, model.RoleUser, 9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_GetProductReviews(t *testing.T) {
	reviewService, user, product, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 4, "Nice")
	require.NoError(t, err)

	reviews, err := reviewService.GetProductReviews(product.ID)
	assert.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)

	_, err = reviewService.GetProductReviews(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
