package enums

import "fmt"

// OrderStatus tracks an order from creation through billing.
type OrderStatus string

const (
	OrderStatusPendingPayment   OrderStatus = "pending_payment"
	OrderStatusPaymentSubmitted OrderStatus = "payment_submitted"
	OrderStatusPaymentVerified  OrderStatus = "payment_verified"
	OrderStatusPaymentRejected  OrderStatus = "payment_rejected"
	OrderStatusBillGenerated    OrderStatus = "bill_generated"
	OrderStatusCompleted        OrderStatus = "completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusPaymentSubmitted,
	OrderStatusPaymentVerified,
	OrderStatusPaymentRejected,
	OrderStatusBillGenerated,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// AcceptsPaymentSubmission reports whether a payment may be submitted for an
// order in this state. Rejected payments can be resubmitted.
func (o OrderStatus) AcceptsPaymentSubmission() bool {
	return o == OrderStatusPendingPayment || o == OrderStatusPaymentRejected
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
