// Package pricing computes checkout totals, wholesale prices and
// loyalty point movements. Every function here is pure.
package pricing

import (
	"cosmetics-storefront/models"

	"github.com/shopspring/decimal"
)

// DeliveryOptions lists the delivery methods in display order
var DeliveryOptions = []models.DeliveryOption{
	{Method: models.DeliveryCourier, Label: "Courier in Minsk", Description: "1-2 days", Fee: decimal.NewFromInt(10)},
	{Method: models.DeliveryPostal, Label: "Europost across Belarus", Description: "2-5 days", Fee: decimal.NewFromInt(7)},
	{Method: models.DeliveryPickup, Label: "Pickup", Description: "Minsk store", Fee: decimal.Zero},
}

// DeliveryFee returns the fixed fee of a delivery method. Unknown methods cost nothing.
func DeliveryFee(method models.DeliveryMethod) decimal.Decimal {
	for _, o := range DeliveryOptions {
		if o.Method == method {
			return o.Fee
		}
	}
	return decimal.Zero
}

// Subtotal sums the line totals of a cart
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// FinalTotal = subtotal + delivery fee − redeemed discount
func FinalTotal(subtotal, deliveryFee decimal.Decimal, redeemed int64) decimal.Decimal {
	return subtotal.Add(deliveryFee).Sub(decimal.NewFromInt(redeemed))
}

// DiscountPercent is the badge shown next to a reduced price:
// round((1 − price/oldPrice) × 100). Zero when there is no old price.
func DiscountPercent(price decimal.Decimal, oldPrice *decimal.Decimal) int64 {
	if oldPrice == nil || !oldPrice.IsPositive() {
		return 0
	}
	pct := decimal.NewFromInt(1).Sub(price.Div(*oldPrice)).Mul(decimal.NewFromInt(100))
	return pct.Round(0).IntPart()
}
