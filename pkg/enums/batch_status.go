package enums

import "fmt"

// BatchStatus tracks the lifecycle of a received product batch.
type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "pending"
	BatchStatusReceived BatchStatus = "received"
	BatchStatusActive   BatchStatus = "active"
	BatchStatusExpired  BatchStatus = "expired"
	BatchStatusRecalled BatchStatus = "recalled"
	BatchStatusDisposed BatchStatus = "disposed"
)

var validBatchStatuses = []BatchStatus{
	BatchStatusPending,
	BatchStatusReceived,
	BatchStatusActive,
	BatchStatusExpired,
	BatchStatusRecalled,
	BatchStatusDisposed,
}

// String implements fmt.Stringer.
func (b BatchStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BatchStatus.
func (b BatchStatus) IsValid() bool {
	for _, candidate := range validBatchStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBatchStatus converts raw input into a BatchStatus.
func ParseBatchStatus(value string) (BatchStatus, error) {
	for _, candidate := range validBatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch status %q", value)
}
