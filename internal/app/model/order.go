package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the five enumerated values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID     uint        `gorm:"primarykey" json:"id"`
	UserID uint        `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Shipping
	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"type:varchar(100)" json:"shipping_city"`
	ShippingPostal  string `gorm:"type:varchar(20)" json:"shipping_postal_code"`
	ShippingCountry string `gorm:"type:varchar(100)" json:"shipping_country"`

	// Prices are computed by the caller at checkout and stored verbatim.
	PaymentMethod string  `gorm:"type:varchar(50);not null" json:"payment_method"`
	ItemsPrice    float64 `gorm:"not null" json:"items_price"`
	TaxPrice      float64 `gorm:"not null" json:"tax_price"`
	ShippingPrice float64 `gorm:"not null" json:"shipping_price"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"`

	// Payment-provider metadata, stored opaquely.
	IsPaid        bool       `gorm:"default:false" json:"is_paid"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentID     string     `gorm:"type:varchar(100)" json:"payment_id,omitempty"`
	PaymentStatus string     `gorm:"type:varchar(50)" json:"payment_status,omitempty"`
	PaymentEmail  string     `gorm:"type:varchar(255)" json:"payment_email,omitempty"`

	IsDelivered bool       `gorm:"default:false" json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable snapshot of a purchased line. Name and
// price are copied at checkout so later product edits never rewrite
// order history.
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice float64        `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
