package pricing

import (
	"github.com/shopspring/decimal"
)

// PointsPerUnit is how many loyalty points buy one currency unit of discount
const PointsPerUnit = 20

// RedemptionCap is the largest discount, in whole currency units, a
// balance can buy on this subtotal: min(floor(balance/20), floor(subtotal)).
func RedemptionCap(balance int64, subtotal decimal.Decimal) int64 {
	if balance <= 0 || !subtotal.IsPositive() {
		return 0
	}
	byPoints := balance / PointsPerUnit
	bySubtotal := subtotal.Floor().IntPart()
	if byPoints < bySubtotal {
		return byPoints
	}
	return bySubtotal
}

// ClampRedemption limits a requested discount to [0, cap]
func ClampRedemption(requested, cap int64) int64 {
	if requested < 0 {
		return 0
	}
	if requested > cap {
		return cap
	}
	return requested
}

// Accrual is the points earned on an order: one per whole currency unit
// of the subtotal, before delivery and before any loyalty discount.
func Accrual(subtotal decimal.Decimal) int64 {
	if !subtotal.IsPositive() {
		return 0
	}
	return subtotal.Floor().IntPart()
}

// Debit converts a redeemed discount into points
func Debit(redeemed int64) int64 {
	return redeemed * PointsPerUnit
}

// Settle returns the balance after an order: balance − redeemed×20 + accrual
func Settle(balance, redeemed, accrual int64) int64 {
	return balance - Debit(redeemed) + accrual
}

// Progress is what the profile and checkout pages show about a balance
type Progress struct {
	Balance         int64 `json:"balance"`
	RedeemableUnits int64 `json:"redeemable_units"`
	PointsToNext    int64 `json:"points_to_next"`
	CanRedeem       bool  `json:"can_redeem"`
}

// LoyaltyProgress describes a balance: how many units it can redeem and
// how many points remain until the next unit.
func LoyaltyProgress(balance int64) Progress {
	if balance < 0 {
		balance = 0
	}
	return Progress{
		Balance:         balance,
		RedeemableUnits: balance / PointsPerUnit,
		PointsToNext:    PointsPerUnit - balance%PointsPerUnit,
		CanRedeem:       balance >= PointsPerUnit,
	}
}
