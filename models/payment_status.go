package models

// PaymentStatus classifies a sale's payment standing.
type PaymentStatus string

const (
	PaymentStatusFullyPaid PaymentStatus = "fully-paid"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusNoPayment PaymentStatus = "no-payment"
	PaymentStatusOverdue   PaymentStatus = "overdue"
)

// Label returns the display name for the status
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusFullyPaid:
		return "Fully Paid"
	case PaymentStatusPartial:
		return "Partially Paid"
	case PaymentStatusNoPayment:
		return "No Payment"
	case PaymentStatusOverdue:
		return "Overdue"
	}
	return string(s)
}

// Color returns the badge color used by the frontend
func (s PaymentStatus) Color() string {
	switch s {
	case PaymentStatusFullyPaid:
		return "green"
	case PaymentStatusPartial:
		return "yellow"
	case PaymentStatusNoPayment:
		return "gray"
	case PaymentStatusOverdue:
		return "red"
	}
	return "gray"
}

// Icon returns the icon name used by the frontend
func (s PaymentStatus) Icon() string {
	switch s {
	case PaymentStatusFullyPaid:
		return "check-circle"
	case PaymentStatusPartial:
		return "clock"
	case PaymentStatusNoPayment:
		return "x-circle"
	case PaymentStatusOverdue:
		return "alert-triangle"
	}
	return "help-circle"
}

// HasBalance reports whether the sale still owes money.
func (s PaymentStatus) HasBalance() bool {
	return s == PaymentStatusPartial || s == PaymentStatusNoPayment || s == PaymentStatusOverdue
}

// IsFullyPaid reports whether nothing is owed.
func (s PaymentStatus) IsFullyPaid() bool {
	return s == PaymentStatusFullyPaid
}

// RequiresAction reports whether the sale needs follow-up (no money
// collected yet, or past its due date).
func (s PaymentStatus) RequiresAction() bool {
	return s == PaymentStatusNoPayment || s == PaymentStatusOverdue
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusFullyPaid, PaymentStatusPartial, PaymentStatusNoPayment, PaymentStatusOverdue:
		return true
	}
	return false
}

// PaymentStatusesWithBalance lists the statuses that carry an outstanding
// balance, used to filter "outstanding" sales in queries.
func PaymentStatusesWithBalance() []PaymentStatus {
	return []PaymentStatus{PaymentStatusPartial, PaymentStatusNoPayment, PaymentStatusOverdue}
}
