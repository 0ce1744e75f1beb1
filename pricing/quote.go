package pricing

import (
	"cosmetics-storefront/models"

	"github.com/shopspring/decimal"
)

// Quote is the checkout summary for a cart
type Quote struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	RedemptionCap int64           `json:"redemption_cap"`
	Redeemed      int64           `json:"redeemed"`
	PointsDebited int64           `json:"points_debited"`
	PointsEarned  int64           `json:"points_earned"`
	Total         decimal.Decimal `json:"total"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
}

// QuoteOrder prices a cart for a delivery method and a loyalty balance.
// The requested discount is clamped to the redemption cap.
func QuoteOrder(lines []models.CartLine, method models.DeliveryMethod, balance, requested int64) Quote {
	subtotal := Subtotal(lines)
	fee := DeliveryFee(method)
	limit := RedemptionCap(balance, subtotal)
	redeemed := ClampRedemption(requested, limit)
	earned := Accrual(subtotal)
	return Quote{
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		RedemptionCap: limit,
		Redeemed:      redeemed,
		PointsDebited: Debit(redeemed),
		PointsEarned:  earned,
		Total:         FinalTotal(subtotal, fee, redeemed),
		BalanceBefore: balance,
		BalanceAfter:  Settle(balance, redeemed, earned),
	}
}
