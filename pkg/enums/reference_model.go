package enums

import "fmt"

// ReferenceModel names the aggregate a stock movement points back to.
type ReferenceModel string

const (
	ReferenceModelOrder    ReferenceModel = "order"
	ReferenceModelBatch    ReferenceModel = "batch"
	ReferenceModelSupplier ReferenceModel = "supplier"
)

var validReferenceModels = []ReferenceModel{
	ReferenceModelOrder,
	ReferenceModelBatch,
	ReferenceModelSupplier,
}

// String implements fmt.Stringer.
func (r ReferenceModel) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReferenceModel.
func (r ReferenceModel) IsValid() bool {
	for _, candidate := range validReferenceModels {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReferenceModel converts raw input into a ReferenceModel.
func ParseReferenceModel(value string) (ReferenceModel, error) {
	for _, candidate := range validReferenceModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reference model %q", value)
}
