package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/types"
)

// Product is a catalog listing. StockQuantity is the on-hand count; once
// batches are in use it equals the sum of active-batch remaining quantities.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Brand         *string         `gorm:"column:brand"`
	Category      *string         `gorm:"column:category"`
	Description   *string         `gorm:"column:description"`
	Benefits      pq.StringArray  `gorm:"column:benefits;type:text[]"`
	AIFeatures    types.StringMap `gorm:"column:ai_features;type:jsonb;serializer:json"`
	Price         int64           `gorm:"column:price;not null"`
	SalePrice     *int64          `gorm:"column:sale_price"`
	IsOnSale      bool            `gorm:"column:is_on_sale;not null;default:false"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	ExpiryDate    *time.Time      `gorm:"column:expiry_date"`
	ImageURL      *string         `gorm:"column:image_url"`
	CreatedBy     uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
