package repository

import (
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type DeliveryOptionRepository interface {
	Create(option *model.DeliveryOption) error
	FindAll(activeOnly bool) ([]model.DeliveryOption, error)
	FindByID(id uint) (*model.DeliveryOption, error)
	Update(option *model.DeliveryOption) error
	Delete(id uint) error
}

type deliveryOptionRepository struct {
	db *gorm.DB
}

func NewDeliveryOptionRepository(db *gorm.DB) DeliveryOptionRepository {
	return &deliveryOptionRepository{db: db}
}

func (r *deliveryOptionRepository) Create(option *model.DeliveryOption) error {
	logger.Debug("Creating delivery option in database", map[string]interface{}{
		"name":  option.Name,
		"price": option.Price,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create delivery option in database", err, map[string]interface{}{
			"name": option.Name,
		})
		return err
	}
	return nil
}

func (r *deliveryOptionRepository) FindAll(activeOnly bool) ([]model.DeliveryOption, error) {
	query := r.db.Order("price ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var options []model.DeliveryOption
	if err := query.Find(&options).Error; err != nil {
		logger.Error("Failed to find delivery options in database", err, nil)
		return nil, err
	}
	return options, nil
}

func (r *deliveryOptionRepository) FindByID(id uint) (*model.DeliveryOption, error) {
	var option model.DeliveryOption
	if err := r.db.First(&option, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find delivery option by ID in database", err, map[string]interface{}{
				"delivery_option_id": id,
			})
		}
		return nil, err
	}
	return &option, nil
}

func (r *deliveryOptionRepository) Update(option *model.DeliveryOption) error {
	logger.Debug("Updating delivery option in database", map[string]interface{}{
		"delivery_option_id": option.ID,
		"name":               option.Name,
	})

	if err := r.db.Save(option).Error; err != nil {
		logger.Error("Failed to update delivery option in database", err, map[string]interface{}{
			"delivery_option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *deliveryOptionRepository) Delete(id uint) error {
	logger.Debug("Deleting delivery option from database", map[string]interface{}{
		"delivery_option_id": id,
	})

	if err := r.db.Delete(&model.DeliveryOption{}, id).Error; err != nil {
		logger.Error("Failed to delete delivery option from database", err, map[string]interface{}{
			"delivery_option_id": id,
		})
		return err
	}
	return nil
}
