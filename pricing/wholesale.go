package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tier is a wholesale bracket: Percent off for quantities of at least Min
type Tier struct {
	Min     int   `json:"min"`
	Percent int64 `json:"percent"`
}

// TierTable is ordered by ascending Min
type TierTable []Tier

// DefaultTiers is the professional (barber) price list
var DefaultTiers = TierTable{
	{Min: 5, Percent: 10},
	{Min: 15, Percent: 15},
	{Min: 30, Percent: 20},
	{Min: 50, Percent: 25},
}

// NewTierTable sorts tiers by minimum quantity
func NewTierTable(tiers ...Tier) TierTable {
	t := append(TierTable(nil), tiers...)
	sort.SliceStable(t, func(i, j int) bool { return t[i].Min < t[j].Min })
	return t
}

// Percent returns the discount of the highest tier whose minimum is at
// most q. Tiers neither interpolate nor stack.
func (t TierTable) Percent(q int) int64 {
	for i := len(t) - 1; i >= 0; i-- {
		if q >= t[i].Min {
			return t[i].Percent
		}
	}
	return 0
}

// UnitPrice = unitPrice × (1 − discount%)
func (t TierTable) UnitPrice(unitPrice decimal.Decimal, q int) decimal.Decimal {
	pct := decimal.NewFromInt(t.Percent(q))
	factor := decimal.NewFromInt(100).Sub(pct).Div(decimal.NewFromInt(100))
	return unitPrice.Mul(factor)
}

// WholesaleQuote is the price of q units of one product
type WholesaleQuote struct {
	Quantity  int             `json:"quantity"`
	Percent   int64           `json:"percent"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	FinalUnit decimal.Decimal `json:"final_unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Quote prices q units. Quantities below 1 are the caller's concern and
// are expected to be clamped already.
func (t TierTable) Quote(unitPrice decimal.Decimal, q int) WholesaleQuote {
	final := t.UnitPrice(unitPrice, q)
	return WholesaleQuote{
		Quantity:  q,
		Percent:   t.Percent(q),
		UnitPrice: unitPrice,
		FinalUnit: final,
		Total:     final.Mul(decimal.NewFromInt(int64(q))),
	}
}
