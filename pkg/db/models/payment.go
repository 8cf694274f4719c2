package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// Payment is one hosted-checkout session with the provider. At most one
// pending payment exists per order; ProviderOrderCode is unique among
// non-terminal payments.
type Payment struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Method            enums.PaymentMethod `gorm:"column:method;not null;default:'online'"`
	Amount            int64               `gorm:"column:amount;not null"`
	Subtotal          int64               `gorm:"column:subtotal;not null"`
	ShippingFee       int64               `gorm:"column:shipping_fee;not null"`
	ProviderOrderCode int64               `gorm:"column:provider_order_code;uniqueIndex;not null"`
	Status            enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	PaymentURL        string              `gorm:"column:payment_url"`
	PaymentTimeout    *time.Time          `gorm:"column:payment_timeout"`
	IsExpired         bool                `gorm:"column:is_expired;not null;default:false"`
	TransactionID     *string             `gorm:"column:transaction_id"`
	PaidAt            *time.Time          `gorm:"column:paid_at"`
	CancelledAt       *time.Time          `gorm:"column:cancelled_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
