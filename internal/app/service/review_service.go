package service

import (
	"errors"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this product")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrForbidden      = errors.New("operation not permitted")
)

type ReviewService interface {
	GetProductReviews(productID uint) ([]model.Review, error)
	CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error)
	UpdateReview(userID uint, role model.UserRole, reviewID uint, rating int, comment string) (*model.Review, error)
	DeleteReview(userID uint, role model.UserRole, reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		db:          db,
	}
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProductID(productID)
}

func (s *reviewService) CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create review: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	_, err := s.reviewRepo.FindByProductAndUser(productID, userID)
	if err == nil {
		logger.Warn("Cannot create review: user already reviewed product", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, productID)
	})
	if err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Review created successfully", map[string]interface{}{
		"review_id": review.ID,
	})
	return review, nil
}

func (s *reviewService) UpdateReview(userID uint, role model.UserRole, reviewID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Updating review", map[string]interface{}{
		"user_id":   userID,
		"review_id": reviewID,
		"rating":    rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != userID && !role.AtLeast(model.RoleAdmin) {
		logger.Warn("Review update denied: not owner", map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
			"owner_id":  review.UserID,
		})
		return nil, ErrForbidden
	}

	review.Rating = rating
	review.Comment = comment

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	return review, nil
}

func (s *reviewService) DeleteReview(userID uint, role model.UserRole, reviewID uint) error {
	logger.Info("Deleting review", map[string]interface{}{
		"user_id":   userID,
		"review_id": reviewID,
	})

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID && !role.AtLeast(model.RoleAdmin) {
		logger.Warn("Review deletion denied: not owner", map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
			"owner_id":  review.UserID,
		})
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Review{}, reviewID).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	return nil
}

// refreshProductRating rederives the denormalized rating columns from
// the surviving reviews, inside the caller's transaction.
func refreshProductRating(tx *gorm.DB, productID uint) error {
	type aggregate struct {
		Avg   float64
		Count int64
	}

	var agg aggregate
	err := tx.Model(&model.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
}
