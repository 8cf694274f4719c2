package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// Actor identifies the authenticated caller of an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// ItemInput is one requested order line for a direct (non-cart) checkout.
type ItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateInput carries everything needed to place an order. When Items is
// empty the customer's cart supplies the lines and is cleared on success.
type CreateInput struct {
	CustomerID      uuid.UUID
	RecipientName   string `json:"recipientName" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	Note            *string
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod" validate:"required"`
	Items           []ItemInput         `json:"items"`
}

// UpdateStatusInput drives a staff or admin lifecycle transition.
type UpdateStatusInput struct {
	OrderID      uuid.UUID
	Status       enums.OrderStatus
	ActorID      uuid.UUID
	CancelReason *string
}

// Filters narrows the management listing.
type Filters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.OrderPaymentStatus
	CustomerID    *uuid.UUID
}

// Stats is the dashboard aggregate over all orders.
type Stats struct {
	TotalOrders     int64            `json:"totalOrders"`
	ByStatus        map[string]int64 `json:"byStatus"`
	ByPaymentStatus map[string]int64 `json:"byPaymentStatus"`
	Revenue         decimal.Decimal  `json:"revenue"`
	Recent          []models.Order   `json:"recent"`
}
