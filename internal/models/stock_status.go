package models

import "time"

// Display statuses for a product row. Pure derivation, nothing is stored.
const (
	StatusOutOfStock = "out-of-stock"
	StatusExpired    = "expired"
	StatusLowStock   = "low-stock"
	StatusInStock    = "in-stock"
)

// StockStatus classifies the product for list views.
//
// Order matters: an empty shelf is reported as out-of-stock even when the
// product is also past its expiry date.
func (p *Product) StockStatus(now time.Time) string {
	if p.QuantityLeft == 0 {
		return StatusOutOfStock
	}
	if p.ExpiryDate != nil && p.ExpiryDate.Before(now) {
		return StatusExpired
	}
	if p.QuantityLeft <= p.ReorderLevel {
		return StatusLowStock
	}
	return StatusInStock
}
