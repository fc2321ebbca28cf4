package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the order workflow state. Confirming an order converts it
// into a sale; the order itself is then closed.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID         uuid.UUID `gorm:"type:uuid;index;not null" json:"storeId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdByUserId"`

	OrderNumber string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerID  uuid.UUID   `gorm:"type:uuid;index;not null" json:"customerId"`
	OrderDate   time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"orderDate"`
	Status      OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);default:0.0" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	Notes string `json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	gorm.Model
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	ProductName string    `gorm:"not null" json:"productName"`

	Quantity   int             `gorm:"default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitCost"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// TotalCost sums item cost across the order, used when a confirmed order is
// converted into a sale.
func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
