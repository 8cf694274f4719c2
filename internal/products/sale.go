package products

import (
	"time"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
)

const autoSaleDiscountPercent = 10

// autoSalePrice is the 10%-off price, rounded half up.
func autoSalePrice(price int64) int64 {
	discounted := price*(100-autoSaleDiscountPercent) + 50
	return discounted / 100
}

// withinAutoSaleWindow reports whether the expiry date is close enough to
// trigger the automatic discount. Already-expired products do not qualify.
func withinAutoSaleWindow(expiry *time.Time, now time.Time, windowDays int) bool {
	if expiry == nil {
		return false
	}
	if !expiry.After(now) {
		return false
	}
	return !expiry.After(now.AddDate(0, 0, windowDays))
}

// DecorateSale applies the read-time sale policy to a product copy. The
// automatic price is never persisted; the stored salePrice is always a
// manual one and wins when lower.
func DecorateSale(product models.Product, now time.Time, windowDays int) models.Product {
	if withinAutoSaleWindow(product.ExpiryDate, now, windowDays) {
		auto := autoSalePrice(product.Price)
		effective := auto
		if product.SalePrice != nil && *product.SalePrice < auto {
			effective = *product.SalePrice
		}
		product.SalePrice = &effective
		product.IsOnSale = true
		return product
	}

	// Outside the window only a stored manual price keeps the sale flag.
	product.IsOnSale = product.SalePrice != nil
	return product
}

// EffectivePrice is the price a customer pays right now.
func EffectivePrice(product models.Product, now time.Time, windowDays int) int64 {
	decorated := DecorateSale(product, now, windowDays)
	if decorated.IsOnSale && decorated.SalePrice != nil {
		return *decorated.SalePrice
	}
	return decorated.Price
}
