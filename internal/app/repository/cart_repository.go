package repository

import (
	"time"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByOwner(owner model.CartOwner) (*model.Cart, error)
	FindByID(id uint) (*model.Cart, error)
	Save(cart *model.Cart) error
	Delete(id uint) error
	CreateItem(item *model.CartItem) error
	FindItem(cartID, productID uint) (*model.CartItem, error)
	UpdateItem(item *model.CartItem) error
	DeleteItem(id uint) error
	DeleteItemsByCartID(cartID uint) error
	DeleteStaleGuestCarts(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id":    cart.UserID,
		"session_id": cart.SessionID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id":    cart.UserID,
			"session_id": cart.SessionID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) FindByOwner(owner model.CartOwner) (*model.Cart, error) {
	logger.Debug("Finding cart by owner in database", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
	})

	query := r.db.Preload("Items").Preload("Items.Product")
	if owner.UserID != nil {
		query = query.Where("user_id = ?", *owner.UserID)
	} else if owner.SessionID != nil {
		query = query.Where("session_id = ?", *owner.SessionID)
	} else {
		return nil, gorm.ErrRecordNotFound
	}

	var cart model.Cart
	if err := query.First(&cart).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by owner in database", err, map[string]interface{}{
				"user_id":    owner.UserID,
				"session_id": owner.SessionID,
			})
		}
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) FindByID(id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.Preload("Items").Preload("Items.Product").First(&cart, id).Error; err != nil {
		logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(cart *model.Cart) error {
	logger.Debug("Saving cart in database", map[string]interface{}{
		"cart_id": cart.ID,
		"total":   cart.Total,
	})

	if err := r.db.Omit("Items").Save(cart).Error; err != nil {
		logger.Error("Failed to save cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			logger.Error("Failed to delete cart items from database", err, map[string]interface{}{
				"cart_id": id,
			})
			return err
		}
		if err := tx.Delete(&model.Cart{}, id).Error; err != nil {
			logger.Error("Failed to delete cart from database", err, map[string]interface{}{
				"cart_id": id,
			})
			return err
		}
		return nil
	})
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item in database", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	logger.Debug("Deleting cart items by cart ID from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by cart ID from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

// DeleteStaleGuestCarts removes guest carts untouched since cutoff,
// items included. User carts are never purged.
func (r *cartRepository) DeleteStaleGuestCarts(cutoff time.Time) (int64, error) {
	logger.Debug("Deleting stale guest carts from database", map[string]interface{}{
		"cutoff": cutoff,
	})

	var staleIDs []uint
	if err := r.db.Model(&model.Cart{}).
		Where("session_id IS NOT NULL AND updated_at < ?", cutoff).
		Pluck("id", &staleIDs).Error; err != nil {
		logger.Error("Failed to list stale guest carts in database", err, nil)
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id IN ?", staleIDs).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", staleIDs).Delete(&model.Cart{}).Error
	})
	if err != nil {
		logger.Error("Failed to delete stale guest carts from database", err, map[string]interface{}{
			"count": len(staleIDs),
		})
		return 0, err
	}

	logger.Debug("Stale guest carts deleted from database", map[string]interface{}{
		"count": len(staleIDs),
	})
	return int64(len(staleIDs)), nil
}
