package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_phone,priority:1" json:"storeId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdByUserId"`

	Name  string `gorm:"not null" json:"name"`
	Phone string `gorm:"not null;uniqueIndex:idx_store_phone,priority:2" json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`

	TotalOrders  int             `gorm:"default:0" json:"totalOrders"`
	TotalSpent   decimal.Decimal `gorm:"type:decimal(12,2);default:0.0" json:"totalSpent"`
	LastPurchase *time.Time      `json:"lastPurchase,omitempty"`
	IsActive     bool            `gorm:"default:true" json:"isActive"`

	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
	Sales  []Sale  `gorm:"foreignKey:CustomerID" json:"-"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
