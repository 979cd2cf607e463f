package db

import (
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds baseline data.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.Review{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.DeliveryOption{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedDeliveryOptions(db); err != nil {
		logger.Error("Failed to seed delivery options", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedDeliveryOptions installs the default shipping methods on an
// empty table. Admins manage them afterwards.
func seedDeliveryOptions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DeliveryOption{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Delivery options already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding delivery options...")

	options := []model.DeliveryOption{
		{
			Name:          "Standard",
			Description:   "Delivered within a week",
			Price:         4.99,
			EstimatedDays: 5,
			Active:        true,
		},
		{
			Name:          "Express",
			Description:   "Delivered in one or two business days",
			Price:         14.99,
			EstimatedDays: 2,
			Active:        true,
		},
		{
			Name:          "Pickup point",
			Description:   "Collect from a nearby pickup location",
			Price:         1.99,
			EstimatedDays: 4,
			Active:        true,
		},
	}

	for _, option := range options {
		if err := db.Create(&option).Error; err != nil {
			logger.Error("Failed to create delivery option", err, map[string]interface{}{
				"name": option.Name,
			})
			return err
		}
	}

	logger.Info("Delivery options seeded successfully", map[string]interface{}{
		"count": len(options),
	})
	return nil
}
