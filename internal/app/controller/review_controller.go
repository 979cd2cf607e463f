package controller

import (
	"errors"
	"net/http"

	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// GetProductReviews lists a product's reviews
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
			return
		}
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview adds a review for a product
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, productID, req.Rating, req.Comment)
	if err != nil {
		ctrl.respondReviewError(c, err)
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}

// UpdateReview edits an existing review (owner or admin)
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, role, reviewID, req.Rating, req.Comment)
	if err != nil {
		ctrl.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// DeleteReview removes a review (owner or admin)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, role, reviewID); err != nil {
		ctrl.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "review deleted",
	})
}

func (ctrl *ReviewController) respondReviewError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "rating must be between 1 and 5")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "review not found")
	case errors.Is(err, service.ErrReviewExists):
		apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "you have already reviewed this product")
	case errors.Is(err, service.ErrForbidden):
		apperrors.Forbidden(c, "")
	default:
		log.Error("Review operation failed", err, nil)
		apperrors.InternalError(c, "")
	}
}
