package models

import (
	"time"

	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a finalized transaction derived from a confirmed order. The
// monetary totals are fixed at conversion time; they are never re-derived
// from order items here.
type Sale struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID         uuid.UUID `gorm:"type:uuid;index;not null" json:"storeId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdByUserId"`

	SaleNumber string    `gorm:"uniqueIndex;not null" json:"saleNumber"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	SaleDate   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"saleDate"`

	OwedAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"owedAmount"`
	CostAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"costAmount"`
	ProfitAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"profitAmount"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'no-payment';index" json:"paymentStatus"`
	DueDate       *time.Time    `gorm:"index" json:"dueDate,omitempty"`
	Notes         string        `json:"notes"`

	Payments []Payment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`

	gorm.Model
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// TotalPaid sums the loaded payments. Callers that need the authoritative
// figure inside a transaction should query the payments table instead.
func (s *Sale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Balance is owed minus paid. Negative means the sale was overpaid.
func (s *Sale) Balance(totalPaid decimal.Decimal) decimal.Decimal {
	return s.OwedAmount.Sub(totalPaid)
}

// PaymentProgress returns how much of the owed amount has been collected, as
// a percentage clamped to 100. Zero when nothing is owed.
func (s *Sale) PaymentProgress(totalPaid decimal.Decimal) float64 {
	if s.OwedAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	progress := totalPaid.Div(s.OwedAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if progress.GreaterThan(hundred) {
		progress = hundred
	}
	return progress.Round(2).InexactFloat64()
}

// ProfitPercentage is profit over cost as a percentage. Zero when cost is
// not positive.
func (s *Sale) ProfitPercentage() float64 {
	if s.CostAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return s.ProfitAmount.Div(s.CostAmount).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// StatusFor derives the payment status from a payment total and the current
// time. The ordering matters: fully paid always wins (equality and
// overpayment included), and overdue is checked before partial so a
// part-paid sale past its due date reads as overdue.
func (s *Sale) StatusFor(totalPaid decimal.Decimal, now time.Time) PaymentStatus {
	if totalPaid.GreaterThanOrEqual(s.OwedAmount) {
		return PaymentStatusFullyPaid
	}
	if s.DueDate != nil && now.After(*s.DueDate) {
		return PaymentStatusOverdue
	}
	if totalPaid.GreaterThan(decimal.Zero) {
		return PaymentStatusPartial
	}
	return PaymentStatusNoPayment
}

// RecomputeStatus refreshes PaymentStatus from the loaded payments.
func (s *Sale) RecomputeStatus(now time.Time) {
	s.PaymentStatus = s.StatusFor(s.TotalPaid(), now)
}

// IsNearDue reports whether the sale's due date is within the next two days
// (inclusive) and money is still expected. Sales already past due are
// excluded; they carry the overdue status instead.
func (s *Sale) IsNearDue(now time.Time) bool {
	if s.PaymentStatus != PaymentStatusNoPayment && s.PaymentStatus != PaymentStatusPartial {
		return false
	}
	if s.DueDate == nil {
		return false
	}
	days := utils.DaysBetween(now, *s.DueDate)
	return days >= 0 && days <= 2
}
