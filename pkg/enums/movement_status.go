package enums

import "fmt"

// MovementStatus tracks approval state of a stock movement.
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "pending"
	MovementStatusApproved  MovementStatus = "approved"
	MovementStatusRejected  MovementStatus = "rejected"
	MovementStatusCompleted MovementStatus = "completed"
)

var validMovementStatuses = []MovementStatus{
	MovementStatusPending,
	MovementStatusApproved,
	MovementStatusRejected,
	MovementStatusCompleted,
}

// String implements fmt.Stringer.
func (m MovementStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementStatus.
func (m MovementStatus) IsValid() bool {
	for _, candidate := range validMovementStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementStatus converts raw input into a MovementStatus.
func ParseMovementStatus(value string) (MovementStatus, error) {
	for _, candidate := range validMovementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement status %q", value)
}
