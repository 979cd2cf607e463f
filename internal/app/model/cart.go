package model

import (
	"time"
)

// Cart is owned by exactly one of UserID or SessionID, never both.
// Guest carts are keyed by the anonymous session cookie and purged
// after seven days of inactivity. Cart rows delete hard so owner keys
// can be reused.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionID *string   `gorm:"uniqueIndex;type:varchar(64)" json:"session_id,omitempty"`
	Total     float64   `gorm:"not null;default:0" json:"total"` // quantity times unit price snapshot, summed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// IsGuest reports whether the cart belongs to an anonymous session.
func (c *Cart) IsGuest() bool {
	return c.SessionID != nil
}

// RecomputeTotal rederives Total from the stored line snapshots. Live
// product prices are never consulted here.
func (c *Cart) RecomputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	c.Total = total
}

// CartItem is a product line with a price snapshot taken at add time.
// The product reference is unique within a cart.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint      `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"` // snapshot at add time
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartOwner identifies a cart by user id or anonymous session id.
// Exactly one side is set.
type CartOwner struct {
	UserID    *uint
	SessionID *string
}

func UserOwner(userID uint) CartOwner {
	return CartOwner{UserID: &userID}
}

func SessionOwner(sessionID string) CartOwner {
	return CartOwner{SessionID: &sessionID}
}
