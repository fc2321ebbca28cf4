package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestStatusForDerivationOrder(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	cases := []struct {
		name    string
		owed    decimal.Decimal
		paid    decimal.Decimal
		dueDate *time.Time
		want    PaymentStatus
	}{
		{"no payment, no due date", dec(1000), dec(0), nil, PaymentStatusNoPayment},
		{"partial, no due date", dec(1000), dec(400), nil, PaymentStatusPartial},
		{"paid exactly", dec(1000), dec(1000), nil, PaymentStatusFullyPaid},
		{"overpaid", dec(1000), dec(1200), nil, PaymentStatusFullyPaid},
		{"no payment, past due", dec(1000), dec(0), &yesterday, PaymentStatusOverdue},
		{"partial, past due beats partial", dec(1000), dec(500), &yesterday, PaymentStatusOverdue},
		{"fully paid beats past due", dec(1000), dec(1000), &yesterday, PaymentStatusFullyPaid},
		{"partial, due in future", dec(1000), dec(500), &nextWeek, PaymentStatusPartial},
		{"no payment, due in future", dec(1000), dec(0), &nextWeek, PaymentStatusNoPayment},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sale := Sale{OwedAmount: tc.owed, DueDate: tc.dueDate}
			assert.Equal(t, tc.want, sale.StatusFor(tc.paid, now))
		})
	}
}

func TestRecomputeStatusFromLoadedPayments(t *testing.T) {
	now := time.Now()
	sale := Sale{
		OwedAmount:    dec(1000),
		PaymentStatus: PaymentStatusNoPayment,
		Payments: []Payment{
			{Amount: dec(300)},
			{Amount: dec(700)},
		},
	}

	sale.RecomputeStatus(now)

	assert.Equal(t, PaymentStatusFullyPaid, sale.PaymentStatus)
	assert.True(t, sale.TotalPaid().Equal(dec(1000)))
}

func TestBalanceAllowsOverpayment(t *testing.T) {
	sale := Sale{OwedAmount: dec(1000)}

	assert.True(t, sale.Balance(dec(400)).Equal(dec(600)))
	assert.True(t, sale.Balance(dec(1000)).Equal(dec(0)))
	assert.True(t, sale.Balance(dec(1200)).Equal(dec(-200)))
}

func TestPaymentProgress(t *testing.T) {
	sale := Sale{OwedAmount: dec(1000)}

	assert.Equal(t, 40.0, sale.PaymentProgress(dec(400)))
	assert.Equal(t, 100.0, sale.PaymentProgress(dec(1000)))

	// Clamped at 100 even when overpaid
	assert.Equal(t, 100.0, sale.PaymentProgress(dec(1500)))

	// Nothing owed means no meaningful progress
	zeroOwed := Sale{OwedAmount: dec(0)}
	assert.Equal(t, 0.0, zeroOwed.PaymentProgress(dec(100)))
	negativeOwed := Sale{OwedAmount: dec(-50)}
	assert.Equal(t, 0.0, negativeOwed.PaymentProgress(dec(100)))
}

func TestProfitPercentage(t *testing.T) {
	sale := Sale{CostAmount: dec(800), ProfitAmount: dec(200)}
	assert.Equal(t, 25.0, sale.ProfitPercentage())

	freeCost := Sale{CostAmount: dec(0), ProfitAmount: dec(200)}
	assert.Equal(t, 0.0, freeCost.ProfitPercentage())
}

func TestIsNearDue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	dueIn := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	cases := []struct {
		name    string
		status  PaymentStatus
		dueDate *time.Time
		want    bool
	}{
		{"due today", PaymentStatusNoPayment, dueIn(0), true},
		{"due tomorrow", PaymentStatusPartial, dueIn(1), true},
		{"due in two days", PaymentStatusNoPayment, dueIn(2), true},
		{"due in three days", PaymentStatusNoPayment, dueIn(3), false},
		{"past due excluded", PaymentStatusPartial, dueIn(-1), false},
		{"no due date", PaymentStatusNoPayment, nil, false},
		{"fully paid never near due", PaymentStatusFullyPaid, dueIn(1), false},
		{"overdue never near due", PaymentStatusOverdue, dueIn(1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sale := Sale{OwedAmount: dec(1000), PaymentStatus: tc.status, DueDate: tc.dueDate}
			assert.Equal(t, tc.want, sale.IsNearDue(now))
		})
	}
}
