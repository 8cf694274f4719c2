package suppliers

import (
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// CreateInput captures the fields needed to register a supplier.
type CreateInput struct {
	Code         string
	Name         string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
	Rating       *float64
}

// UpdateInput carries the mutable supplier fields; nil means leave unchanged.
type UpdateInput struct {
	Name         *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
	Status       *enums.SupplierStatus
	Rating       *float64
}

// Filters narrows supplier listings.
type Filters struct {
	Status *enums.SupplierStatus
	Search string
}
