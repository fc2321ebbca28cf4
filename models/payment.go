package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod is how a payment was collected.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodMobileMoney  PaymentMethod = "mobile-money"
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
	PaymentMethodCard         PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankTransfer, PaymentMethodCard:
		return true
	}
	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodMobileMoney:
		return "Mobile Money"
	case PaymentMethodBankTransfer:
		return "Bank Transfer"
	case PaymentMethodCard:
		return "Card"
	}
	return string(m)
}

// Payment is one recorded payment event against a sale. Payments are only
// ever created or deleted; an amend is a delete plus a new record.
type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID uuid.UUID `gorm:"type:uuid;index;not null" json:"saleId"`

	Method    PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reference *string         `json:"reference,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	PaidAt    time.Time       `json:"paidAt"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
