package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// Order is the aggregate root of a purchase. StockDeducted guarantees
// at-most-once inventory deduction across staff transitions and the payment
// webhook; cancelled orders are retained with their cancel reason.
type Order struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID      *uuid.UUID               `gorm:"column:customer_id;type:uuid;index"`
	RecipientName   string                   `gorm:"column:recipient_name;not null"`
	Phone           string                   `gorm:"column:phone;not null"`
	ShippingAddress string                   `gorm:"column:shipping_address;not null"`
	Note            *string                  `gorm:"column:note"`
	Status          enums.OrderStatus        `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus   enums.OrderPaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod      `gorm:"column:payment_method;not null"`
	Subtotal        int64                    `gorm:"column:subtotal;not null"`
	ShippingFee     int64                    `gorm:"column:shipping_fee;not null"`
	TotalAmount     int64                    `gorm:"column:total_amount;not null"`
	CancelReason    *string                  `gorm:"column:cancel_reason"`
	StockDeducted   bool                     `gorm:"column:stock_deducted;not null;default:false"`
	Details         []OrderDetail            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
