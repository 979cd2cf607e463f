package service

import (
	"errors"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

type CartService interface {
	GetCart(owner model.CartOwner) (*model.Cart, error)
	AddItem(owner model.CartOwner, productID uint, quantity int) (*model.Cart, error)
	UpdateItem(owner model.CartOwner, productID uint, quantity int) (*model.Cart, error)
	RemoveItem(owner model.CartOwner, productID uint) (*model.Cart, error)
	ClearCart(owner model.CartOwner) error
	TransferGuestCart(sessionID string, userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// GetCart returns the owner's cart. A missing cart reads as an empty
// one; nothing is persisted until the first write.
func (s *cartService) GetCart(owner model.CartOwner) (*model.Cart, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
	})

	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Cart{
				UserID:    owner.UserID,
				SessionID: owner.SessionID,
				Items:     []model.CartItem{},
			}, nil
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id":    owner.UserID,
			"session_id": owner.SessionID,
		})
		return nil, err
	}

	return cart, nil
}

// getOrCreateCart persists the owner's cart on first write.
func (s *cartService) getOrCreateCart(owner model.CartOwner) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByOwner(owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts a product line into the cart. If the product is already
// present its quantity is REPLACED with the requested one, not summed;
// clients send the full desired quantity. The unit price snapshot taken
// at first add is kept.
func (s *cartService) AddItem(owner model.CartOwner, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if product.StockQuantity < quantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  quantity,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	cart, err := s.getOrCreateCart(owner)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity = quantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	return s.reloadAndTotal(cart.ID)
}

// UpdateItem sets the quantity of an existing line.
func (s *cartService) UpdateItem(owner model.CartOwner, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	item, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for update", map[string]interface{}{
				"cart_id":    cart.ID,
				"product_id": productID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.StockQuantity < quantity {
		logger.Warn("Cannot update cart item: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  quantity,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	return s.reloadAndTotal(cart.ID)
}

// RemoveItem deletes a line. Removing a product that is not in the
// cart is a no-op, but a cart that cannot be loaded at all is
// ErrCartNotFound.
func (s *cartService) RemoveItem(owner model.CartOwner, productID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
		"product_id": productID,
	})

	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.reloadAndTotal(cart.ID)
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}

	return s.reloadAndTotal(cart.ID)
}

func (s *cartService) ClearCart(owner model.CartOwner) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id":    owner.UserID,
		"session_id": owner.SessionID,
	})

	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
		return err
	}

	cart.Items = nil
	cart.RecomputeTotal()
	return s.cartRepo.Save(cart)
}

// TransferGuestCart moves a guest cart onto the user at login. Lines
// for the same product merge by summing quantities, with the guest
// line's price snapshot winning. The guest cart is deleted afterwards;
// this is a move, not a copy. A missing or empty guest cart is
// ErrCartNotFound.
func (s *cartService) TransferGuestCart(sessionID string, userID uint) (*model.Cart, error) {
	logger.Info("Transferring guest cart", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
	})

	guestCart, err := s.cartRepo.FindByOwner(model.SessionOwner(sessionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("No guest cart to transfer", map[string]interface{}{
				"session_id": sessionID,
			})
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if len(guestCart.Items) == 0 {
		logger.Warn("Guest cart is empty, nothing to transfer", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrCartNotFound
	}

	userCart, err := s.getOrCreateCart(model.UserOwner(userID))
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, guestItem := range guestCart.Items {
			var userItem model.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", userCart.ID, guestItem.ProductID).
				First(&userItem).Error
			switch {
			case err == nil:
				userItem.Quantity += guestItem.Quantity
				userItem.UnitPrice = guestItem.UnitPrice
				if err := tx.Save(&userItem).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				moved := model.CartItem{
					CartID:    userCart.ID,
					ProductID: guestItem.ProductID,
					Quantity:  guestItem.Quantity,
					UnitPrice: guestItem.UnitPrice,
				}
				if err := tx.Create(&moved).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, guestCart.ID).Error
	})
	if err != nil {
		logger.Error("Failed to transfer guest cart", err, map[string]interface{}{
			"session_id": sessionID,
			"user_id":    userID,
		})
		return nil, err
	}

	logger.Info("Guest cart transferred successfully", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
	})
	return s.reloadAndTotal(userCart.ID)
}

// reloadAndTotal rereads the cart, rederives Total from the stored
// line snapshots and persists it.
func (s *cartService) reloadAndTotal(cartID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		return nil, err
	}

	cart.RecomputeTotal()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}
