package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryElectronics ProductCategory = "electronics"
	CategoryClothing    ProductCategory = "clothing"
	CategoryHome        ProductCategory = "home"
	CategoryBeauty      ProductCategory = "beauty"
	CategorySports      ProductCategory = "sports"
	CategoryBooks       ProductCategory = "books"
)

// Valid reports whether the category is one of the known values.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryHome, CategoryBeauty, CategorySports, CategoryBooks:
		return true
	}
	return false
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	Rating        float64         `gorm:"default:0" json:"rating"` // derived from reviews
	ReviewCount   int             `gorm:"default:0" json:"review_count"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
