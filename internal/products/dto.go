package products

import (
	"time"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/types"
)

// CreateInput captures the fields staff provide when listing a product.
type CreateInput struct {
	Name        string
	Brand       *string
	Category    *string
	Description *string
	Benefits    []string
	AIFeatures  types.StringMap
	Price       int64
	SalePrice   *int64
	Stock       int
	ExpiryDate  *time.Time
	ImageURL    *string
}

// UpdateInput carries mutable product fields; nil means leave unchanged.
type UpdateInput struct {
	Name        *string
	Brand       *string
	Category    *string
	Description *string
	Benefits    []string
	AIFeatures  types.StringMap
	Price       *int64
	SalePrice   *int64
	ClearSale   bool
	Stock       *int
	ExpiryDate  *time.Time
	ImageURL    *string
}

// Filters narrows catalog listings.
type Filters struct {
	Category  *string
	Brand     *string
	Search    string
	OnSale    *bool
	InStock   *bool
	CreatedBy []string
}
