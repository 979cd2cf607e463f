package repository

import (
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByProductID(productID uint) ([]model.Review, error)
	FindByProductAndUser(productID, userID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	AggregateForProduct(productID uint) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
				"review_id": id,
			})
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductID(productID uint) ([]model.Review, error) {
	logger.Debug("Finding reviews by product ID in database", map[string]interface{}{
		"product_id": productID,
	})

	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) FindByProductAndUser(productID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find review by product and user in database", err, map[string]interface{}{
				"product_id": productID,
				"user_id":    userID,
			})
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	logger.Debug("Updating review in database", map[string]interface{}{
		"review_id": review.ID,
		"rating":    review.Rating,
	})

	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

// AggregateForProduct returns the live average rating and review count.
func (r *reviewRepository) AggregateForProduct(productID uint) (float64, int64, error) {
	type row struct {
		Avg   float64
		Count int64
	}

	var result row
	err := r.db.Model(&model.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		logger.Error("Failed to aggregate reviews for product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, 0, err
	}

	return result.Avg, result.Count, nil
}
