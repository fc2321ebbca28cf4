package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_sku,priority:1" json:"storeId"`

	Name        string `gorm:"not null" json:"name"`
	SKU         string `gorm:"not null;uniqueIndex:idx_store_sku,priority:2" json:"sku"`
	Description string `json:"description"`

	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	Quantity int             `gorm:"default:0" json:"quantity"`

	Category string `gorm:"default:'General'" json:"category"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
