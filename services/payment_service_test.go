package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/ErnestKamau/inventory-systems/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open db")

	require.NoError(t, db.AutoMigrate(&models.Sale{}, &models.Payment{}), "migrate")
	return db
}

func seedSale(t *testing.T, db *gorm.DB, storeID uuid.UUID, owed int64, dueDate *time.Time) *models.Sale {
	t.Helper()

	sale := models.Sale{
		ID:              uuid.New(),
		StoreID:         storeID,
		CreatedByUserID: uuid.New(),
		OrderID:         uuid.New(),
		CustomerID:      uuid.New(),
		SaleNumber:      "SAL-TEST-" + uuid.NewString()[:8],
		SaleDate:        time.Now(),
		OwedAmount:      decimal.NewFromInt(owed),
		CostAmount:      decimal.NewFromInt(owed / 2),
		ProfitAmount:    decimal.NewFromInt(owed - owed/2),
		PaymentStatus:   models.PaymentStatusNoPayment,
		DueDate:         dueDate,
	}
	require.NoError(t, db.Create(&sale).Error, "seed sale")
	return &sale
}

func cashPayment(amount int64) PaymentInput {
	return PaymentInput{Method: models.PaymentMethodCash, Amount: decimal.NewFromInt(amount)}
}

func reloadSale(t *testing.T, db *gorm.DB, id uuid.UUID) models.Sale {
	t.Helper()
	var sale models.Sale
	require.NoError(t, db.First(&sale, "id = ?", id).Error)
	return sale
}

func TestAddPaymentPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	payment, err := svc.AddPayment(storeID, sale.ID, cashPayment(400), now)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, payment.SaleID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, now, payment.PaidAt)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusPartial, reloaded.PaymentStatus)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(600)), "balance should be 600, got %s", summary.Balance)
	assert.Equal(t, 40.0, summary.PaymentProgress)
	assert.Equal(t, int64(1), summary.PaymentCount)
}

func TestFractionalAmountsSumExactly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()

	sale := models.Sale{
		ID:              uuid.New(),
		StoreID:         storeID,
		CreatedByUserID: uuid.New(),
		OrderID:         uuid.New(),
		CustomerID:      uuid.New(),
		SaleNumber:      "SAL-TEST-" + uuid.NewString()[:8],
		SaleDate:        now,
		OwedAmount:      decimal.RequireFromString("0.30"),
		CostAmount:      decimal.RequireFromString("0.10"),
		ProfitAmount:    decimal.RequireFromString("0.20"),
		PaymentStatus:   models.PaymentStatusNoPayment,
	}
	require.NoError(t, db.Create(&sale).Error, "seed sale")

	// 0.1 has no exact binary representation; three of them must still sum
	// to exactly 0.30
	tenCents := PaymentInput{Method: models.PaymentMethodCash, Amount: decimal.RequireFromString("0.10")}
	_, err := svc.AddPayments(storeID, sale.ID, []PaymentInput{tenCents, tenCents, tenCents}, now)
	require.NoError(t, err)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusFullyPaid, reloaded.PaymentStatus)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.True(t, summary.TotalPaid.Equal(decimal.RequireFromString("0.30")), "total paid %s", summary.TotalPaid)
	assert.True(t, summary.Balance.IsZero(), "balance should be exactly zero, got %s", summary.Balance)
	assert.True(t, summary.IsFullyPaid)
	assert.Equal(t, 100.0, summary.PaymentProgress)
}

func TestAddPaymentExactAmountIsFullyPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(1000), now)
	require.NoError(t, err)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusFullyPaid, reloaded.PaymentStatus)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.True(t, summary.Balance.IsZero())
	assert.True(t, summary.IsFullyPaid)
}

func TestAddPaymentOverpayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(1500), now)
	require.NoError(t, err)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFullyPaid, summary.PaymentStatus)
	// Progress is clamped but the balance is allowed to go negative
	assert.Equal(t, 100.0, summary.PaymentProgress)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(-500)))
}

func TestAddPaymentRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(0), now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.AddPayment(storeID, sale.ID, cashPayment(-50), now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.AddPayment(storeID, sale.ID, PaymentInput{Method: "cheque", Amount: decimal.NewFromInt(100)}, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Nothing was recorded
	var count int64
	db.Model(&models.Payment{}).Where("sale_id = ?", sale.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, models.PaymentStatusNoPayment, reloadSale(t, db, sale.ID).PaymentStatus)
}

func TestAddPaymentUnknownSale(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	_, err := svc.AddPayment(uuid.New(), uuid.New(), cashPayment(100), time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddPaymentWrongStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	sale := seedSale(t, db, uuid.New(), 1000, nil)

	_, err := svc.AddPayment(uuid.New(), sale.ID, cashPayment(100), time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOverdueBeatsPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	sale := seedSale(t, db, storeID, 1000, &yesterday)

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(500), now)
	require.NoError(t, err)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusOverdue, reloaded.PaymentStatus)
}

func TestAddPaymentsBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	payments, err := svc.AddPayments(storeID, sale.ID, []PaymentInput{
		cashPayment(300),
		{Method: models.PaymentMethodMobileMoney, Amount: decimal.NewFromInt(300)},
		{Method: models.PaymentMethodCard, Amount: decimal.NewFromInt(400)},
	}, now)
	require.NoError(t, err)
	assert.Len(t, payments, 3)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusFullyPaid, reloaded.PaymentStatus)
}

func TestAddPaymentsBatchAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	// Third entry is invalid; the whole batch must be rejected up front
	_, err := svc.AddPayments(storeID, sale.ID, []PaymentInput{
		cashPayment(300),
		cashPayment(300),
		cashPayment(-400),
	}, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var count int64
	db.Model(&models.Payment{}).Where("sale_id = ?", sale.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, models.PaymentStatusNoPayment, reloadSale(t, db, sale.ID).PaymentStatus)
}

func TestAddPaymentsEmptyBatchRecomputes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	// Force a stale stored status; an empty batch must still recompute from
	// the current totals
	require.NoError(t, db.Model(&models.Sale{}).Where("id = ?", sale.ID).
		Update("payment_status", models.PaymentStatusFullyPaid).Error)

	payments, err := svc.AddPayments(storeID, sale.ID, nil, now)
	require.NoError(t, err)
	assert.Empty(t, payments)

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusNoPayment, reloaded.PaymentStatus)
}

func TestDeletePaymentRevertsStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 500, nil)
	now := time.Now()

	payment, err := svc.AddPayment(storeID, sale.ID, cashPayment(500), now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFullyPaid, reloadSale(t, db, sale.ID).PaymentStatus)

	require.NoError(t, svc.DeletePayment(storeID, payment.ID, now))

	reloaded := reloadSale(t, db, sale.ID)
	assert.Equal(t, models.PaymentStatusNoPayment, reloaded.PaymentStatus)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.PaymentCount)
	assert.True(t, summary.TotalPaid.IsZero())
}

func TestDeletePaymentWrongStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 500, nil)
	now := time.Now()

	payment, err := svc.AddPayment(storeID, sale.ID, cashPayment(100), now)
	require.NoError(t, err)

	err = svc.DeletePayment(uuid.New(), payment.ID, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetAsDebt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	// days below 1 is a caller mistake
	_, err := svc.SetAsDebt(storeID, sale.ID, 0, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.SetAsDebt(storeID, sale.ID, -3, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	updated, err := svc.SetAsDebt(storeID, sale.ID, 7, now)
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 7).Unix(), updated.DueDate.Unix())
	// Status is left as it was; the due date alone does not change it
	assert.Equal(t, models.PaymentStatusNoPayment, reloadSale(t, db, sale.ID).PaymentStatus)
}

func TestSetAsDebtNoOpWhenFullyPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	sale := seedSale(t, db, storeID, 1000, nil)
	now := time.Now()

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(1000), now)
	require.NoError(t, err)

	updated, err := svc.SetAsDebt(storeID, sale.ID, 7, now)
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Nil(t, reloadSale(t, db, sale.ID).DueDate)
}

func TestSetAsDebtNoOpWhenOverdue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	sale := seedSale(t, db, storeID, 1000, &yesterday)

	_, err := svc.MarkOverdueSales(now)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusOverdue, reloadSale(t, db, sale.ID).PaymentStatus)

	updated, err := svc.SetAsDebt(storeID, sale.ID, 7, now)
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	// Due date stays where it was
	assert.Equal(t, yesterday.Unix(), updated.DueDate.Unix())
}

func TestGetPaymentSummaryNearDue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)
	sale := seedSale(t, db, storeID, 1000, &tomorrow)

	_, err := svc.AddPayment(storeID, sale.ID, cashPayment(400), now)
	require.NoError(t, err)

	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, summary.PaymentStatus)
	assert.True(t, summary.IsNearDue)
	assert.False(t, summary.IsOverdue)
	assert.False(t, summary.IsFullyPaid)
}

func TestGetPaymentSummaryDerivesOverdueEvenIfStoredStatusIsStale(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	sale := seedSale(t, db, storeID, 1000, &yesterday)

	// Stored status still says no-payment; nobody has touched the ledger
	// since the due date passed
	summary, err := svc.GetPaymentSummary(storeID, sale.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusOverdue, summary.PaymentStatus)
	assert.True(t, summary.IsOverdue)
	assert.False(t, summary.IsNearDue)
}

func TestMarkOverdueSales(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	storeID := uuid.New()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	pastDue := seedSale(t, db, storeID, 1000, &yesterday)
	notYetDue := seedSale(t, db, storeID, 1000, &nextWeek)
	noDueDate := seedSale(t, db, storeID, 1000, nil)

	paidPastDue := seedSale(t, db, storeID, 500, &yesterday)
	_, err := svc.AddPayment(storeID, paidPastDue.ID, cashPayment(500), yesterday.AddDate(0, 0, -1))
	require.NoError(t, err)

	count, err := svc.MarkOverdueSales(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, models.PaymentStatusOverdue, reloadSale(t, db, pastDue.ID).PaymentStatus)
	assert.Equal(t, models.PaymentStatusNoPayment, reloadSale(t, db, notYetDue.ID).PaymentStatus)
	assert.Equal(t, models.PaymentStatusNoPayment, reloadSale(t, db, noDueDate.ID).PaymentStatus)
	assert.Equal(t, models.PaymentStatusFullyPaid, reloadSale(t, db, paidPastDue.ID).PaymentStatus)

	// Second sweep finds nothing left to flip
	count, err = svc.MarkOverdueSales(now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
