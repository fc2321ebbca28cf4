package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusPredicates(t *testing.T) {
	cases := []struct {
		status         PaymentStatus
		hasBalance     bool
		isFullyPaid    bool
		requiresAction bool
	}{
		{PaymentStatusFullyPaid, false, true, false},
		{PaymentStatusPartial, true, false, false},
		{PaymentStatusNoPayment, true, false, true},
		{PaymentStatusOverdue, true, false, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.hasBalance, tc.status.HasBalance())
			assert.Equal(t, tc.isFullyPaid, tc.status.IsFullyPaid())
			assert.Equal(t, tc.requiresAction, tc.status.RequiresAction())
		})
	}
}

func TestPaymentStatusPresentation(t *testing.T) {
	assert.Equal(t, "Fully Paid", PaymentStatusFullyPaid.Label())
	assert.Equal(t, "green", PaymentStatusFullyPaid.Color())
	assert.Equal(t, "check-circle", PaymentStatusFullyPaid.Icon())

	assert.Equal(t, "Overdue", PaymentStatusOverdue.Label())
	assert.Equal(t, "red", PaymentStatusOverdue.Color())
	assert.Equal(t, "alert-triangle", PaymentStatusOverdue.Icon())

	assert.Equal(t, "yellow", PaymentStatusPartial.Color())
	assert.Equal(t, "gray", PaymentStatusNoPayment.Color())
}

func TestPaymentStatusValid(t *testing.T) {
	assert.True(t, PaymentStatusPartial.Valid())
	assert.False(t, PaymentStatus("unpaid").Valid())
	assert.False(t, PaymentStatus("").Valid())
}

func TestPaymentStatusesWithBalance(t *testing.T) {
	withBalance := PaymentStatusesWithBalance()

	assert.Len(t, withBalance, 3)
	assert.Contains(t, withBalance, PaymentStatusPartial)
	assert.Contains(t, withBalance, PaymentStatusNoPayment)
	assert.Contains(t, withBalance, PaymentStatusOverdue)
	assert.NotContains(t, withBalance, PaymentStatusFullyPaid)
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodMobileMoney.Valid())
	assert.True(t, PaymentMethodBankTransfer.Valid())
	assert.True(t, PaymentMethodCard.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
}
