package enums

import "fmt"

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeTransfer   MovementType = "transfer"
	MovementTypeReturn     MovementType = "return"
	MovementTypeDisposal   MovementType = "disposal"
)

var validMovementTypes = []MovementType{
	MovementTypeIn,
	MovementTypeOut,
	MovementTypeAdjustment,
	MovementTypeTransfer,
	MovementTypeReturn,
	MovementTypeDisposal,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Sign returns the direction the movement applies to on-hand stock.
func (m MovementType) Sign() int {
	switch m {
	case MovementTypeIn, MovementTypeReturn:
		return 1
	case MovementTypeOut, MovementTypeDisposal:
		return -1
	default:
		return 0
	}
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
