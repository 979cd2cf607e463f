package model

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryOption is an admin-managed shipping method offered at checkout.
type DeliveryOption struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null;uniqueIndex" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	EstimatedDays int            `gorm:"not null" json:"estimated_days"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DeliveryOption) TableName() string {
	return "delivery_options"
}
