package enums

import "fmt"

// OrderPaymentStatus tracks how an order stands financially.
type OrderPaymentStatus string

const (
	OrderPaymentStatusPending   OrderPaymentStatus = "pending"
	OrderPaymentStatusSuccess   OrderPaymentStatus = "success"
	OrderPaymentStatusFailed    OrderPaymentStatus = "failed"
	OrderPaymentStatusCancelled OrderPaymentStatus = "cancelled"
	OrderPaymentStatusRefunded  OrderPaymentStatus = "refunded"
	OrderPaymentStatusExpired   OrderPaymentStatus = "expired"
)

var validOrderPaymentStatuses = []OrderPaymentStatus{
	OrderPaymentStatusPending,
	OrderPaymentStatusSuccess,
	OrderPaymentStatusFailed,
	OrderPaymentStatusCancelled,
	OrderPaymentStatusRefunded,
	OrderPaymentStatusExpired,
}

// String implements fmt.Stringer.
func (o OrderPaymentStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPaymentStatus.
func (o OrderPaymentStatus) IsValid() bool {
	for _, candidate := range validOrderPaymentStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPaymentStatus converts raw input into an OrderPaymentStatus.
func ParseOrderPaymentStatus(value string) (OrderPaymentStatus, error) {
	for _, candidate := range validOrderPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order payment status %q", value)
}
