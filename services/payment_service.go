// services/payment_service.go
package services

import (
	"fmt"
	"time"

	"github.com/ErnestKamau/inventory-systems/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService owns the sale payment lifecycle: recording payments,
// deleting them, debt due dates, and keeping each sale's payment status in
// step with its ledger. Every mutation runs in one transaction and
// recomputes the status from the payment sum read inside that same
// transaction, so the stored status is never stale.
//
// All operations take an explicit now so callers (and tests) control time.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// PaymentInput is the payload for recording one payment.
type PaymentInput struct {
	Method    models.PaymentMethod `json:"method" binding:"required"`
	Amount    decimal.Decimal      `json:"amount" binding:"required"`
	Reference *string              `json:"reference"`
	Notes     *string              `json:"notes"`
	PaidAt    *time.Time           `json:"paidAt"`
}

func (in PaymentInput) validate() error {
	if !in.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, in.Method)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidArgument)
	}
	return nil
}

// PaymentSummary is a read-only projection of a sale's payment standing.
type PaymentSummary struct {
	SaleID          uuid.UUID            `json:"saleId"`
	SaleNumber      string               `json:"saleNumber"`
	PaymentStatus   models.PaymentStatus `json:"paymentStatus"`
	OwedAmount      decimal.Decimal      `json:"owedAmount"`
	TotalPaid       decimal.Decimal      `json:"totalPaid"`
	Balance         decimal.Decimal      `json:"balance"`
	PaymentProgress float64              `json:"paymentProgress"`
	IsFullyPaid     bool                 `json:"isFullyPaid"`
	IsOverdue       bool                 `json:"isOverdue"`
	IsNearDue       bool                 `json:"isNearDue"`
	DueDate         *time.Time           `json:"dueDate,omitempty"`
	PaymentCount    int64                `json:"paymentCount"`
}

// AddPayment records one payment against a sale and recomputes the sale's
// payment status, all in a single transaction.
func (s *PaymentService) AddPayment(storeID, saleID uuid.UUID, input PaymentInput, now time.Time) (*models.Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var sale models.Sale
	if err := tx.Where("store_id = ? AND id = ?", storeID, saleID).First(&sale).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	payment := newPayment(sale.ID, input, now)
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := s.recomputeStatus(tx, &sale, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return &payment, nil
}

// AddPayments records a batch of payments atomically. All rows are created
// first and the status is recomputed exactly once afterwards. If any create
// fails, nothing is committed. An empty batch changes no ledger rows but
// still recomputes the status from the current totals.
func (s *PaymentService) AddPayments(storeID, saleID uuid.UUID, inputs []PaymentInput, now time.Time) ([]models.Payment, error) {
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return nil, err
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var sale models.Sale
	if err := tx.Where("store_id = ? AND id = ?", storeID, saleID).First(&sale).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	payments := make([]models.Payment, 0, len(inputs))
	for _, in := range inputs {
		payment := newPayment(sale.ID, in, now)
		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("create payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := s.recomputeStatus(tx, &sale, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit payments: %w", err)
	}
	return payments, nil
}

// DeletePayment removes a payment and recomputes the owning sale's status.
// The recomputation is part of the ledger contract, not optional.
func (s *PaymentService) DeletePayment(storeID, paymentID uuid.UUID, now time.Time) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var payment models.Payment
	if err := tx.Joins("JOIN sales ON sales.id = payments.sale_id").
		Where("sales.store_id = ? AND payments.id = ?", storeID, paymentID).
		First(&payment).Error; err != nil {
		tx.Rollback()
		return err
	}

	var sale models.Sale
	if err := tx.Where("id = ?", payment.SaleID).First(&sale).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&payment).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete payment: %w", err)
	}

	if err := s.recomputeStatus(tx, &sale, now); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit payment delete: %w", err)
	}
	return nil
}

// SetAsDebt gives a sale an explicit due date, days from now. days must be
// at least 1. Fully paid and already-overdue sales are left untouched
// without an error; their due date is not reset.
func (s *PaymentService) SetAsDebt(storeID, saleID uuid.UUID, days int, now time.Time) (*models.Sale, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: debt days must be at least 1, got %d", ErrInvalidArgument, days)
	}

	var sale models.Sale
	if err := s.db.Where("store_id = ? AND id = ?", storeID, saleID).First(&sale).Error; err != nil {
		return nil, err
	}

	if sale.PaymentStatus != models.PaymentStatusNoPayment && sale.PaymentStatus != models.PaymentStatusPartial {
		return &sale, nil
	}

	dueDate := now.AddDate(0, 0, days)
	if err := s.db.Model(&sale).Update("due_date", dueDate).Error; err != nil {
		return nil, fmt.Errorf("set due date: %w", err)
	}
	sale.DueDate = &dueDate
	return &sale, nil
}

// GetPaymentSummary builds the read-only payment projection for a sale. The
// status flags are derived from the current totals and now, so the summary
// reflects an overdue sale even if the stored status has not been swept yet.
func (s *PaymentService) GetPaymentSummary(storeID, saleID uuid.UUID, now time.Time) (*PaymentSummary, error) {
	var sale models.Sale
	if err := s.db.Where("store_id = ? AND id = ?", storeID, saleID).First(&sale).Error; err != nil {
		return nil, err
	}

	totalPaid, err := s.totalPaid(s.db, sale.ID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Payment{}).Where("sale_id = ?", sale.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	status := sale.StatusFor(totalPaid, now)
	sale.PaymentStatus = status

	return &PaymentSummary{
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		PaymentStatus:   status,
		OwedAmount:      sale.OwedAmount,
		TotalPaid:       totalPaid,
		Balance:         sale.Balance(totalPaid),
		PaymentProgress: sale.PaymentProgress(totalPaid),
		IsFullyPaid:     status.IsFullyPaid(),
		IsOverdue:       status == models.PaymentStatusOverdue,
		IsNearDue:       sale.IsNearDue(now),
		DueDate:         sale.DueDate,
		PaymentCount:    count,
	}, nil
}

// MarkOverdueSales flips every sale whose due date has passed and is still
// owed money to the overdue status. Payment mutations keep statuses fresh on
// their own; this sweep covers sales nobody has touched since the due date
// went by. Run hourly by the scheduler.
func (s *PaymentService) MarkOverdueSales(now time.Time) (int64, error) {
	result := s.db.Model(&models.Sale{}).
		Where("due_date IS NOT NULL AND due_date < ? AND payment_status IN ?",
			now, []models.PaymentStatus{models.PaymentStatusNoPayment, models.PaymentStatusPartial}).
		Update("payment_status", models.PaymentStatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("mark overdue sales: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// recomputeStatus re-reads the payment sum inside tx and writes the derived
// status. Run inside every transaction that touches the ledger.
func (s *PaymentService) recomputeStatus(tx *gorm.DB, sale *models.Sale, now time.Time) error {
	totalPaid, err := s.totalPaid(tx, sale.ID)
	if err != nil {
		return err
	}

	status := sale.StatusFor(totalPaid, now)
	if err := tx.Model(sale).Update("payment_status", status).Error; err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	sale.PaymentStatus = status
	return nil
}

// totalPaid re-reads the sale's payment rows inside tx and sums them in Go.
// sqlite evaluates SUM() over decimal columns in floating point, so the sum
// is never delegated to SQL.
func (s *PaymentService) totalPaid(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := tx.Model(&models.Payment{}).
		Where("sale_id = ?", saleID).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total, nil
}

func newPayment(saleID uuid.UUID, input PaymentInput, now time.Time) models.Payment {
	paidAt := now
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	return models.Payment{
		ID:        uuid.New(),
		SaleID:    saleID,
		Method:    input.Method,
		Amount:    input.Amount,
		Reference: input.Reference,
		Notes:     input.Notes,
		PaidAt:    paidAt,
	}
}
