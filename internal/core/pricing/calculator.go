package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Breakdown is the cost of a client for one billing period.
type Breakdown struct {
	BaseCost        decimal.Decimal `json:"baseCost"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalCost       decimal.Decimal `json:"finalCost"`
	Currency        Currency        `json:"currency"`
	Display         Display         `json:"display"`
}

// Display carries the breakdown formatted for the UI.
type Display struct {
	BaseCost       string `json:"baseCost"`
	DiscountAmount string `json:"discountAmount"`
	FinalCost      string `json:"finalCost"`
}

// ClampDiscount keeps a discount percentage within [0, 100].
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Calculate computes base, discount and final cost. Amounts are rounded to
// cents and FinalCost always equals BaseCost minus DiscountAmount.
func Calculate(p Pricing, discountPercent decimal.Decimal, currency Currency) Breakdown {
	base := p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))).Round(2)
	pct := ClampDiscount(discountPercent)

	discount := decimal.Zero
	if pct.IsPositive() {
		discount = base.Mul(pct).Div(hundred).Round(2)
	}
	final := base.Sub(discount)

	b := Breakdown{
		BaseCost:        base,
		DiscountPercent: pct,
		DiscountAmount:  discount,
		FinalCost:       final,
		Currency:        currency,
	}
	b.Display = Display{
		BaseCost:       FormatMoney(base, currency),
		DiscountAmount: FormatMoney(discount.Neg(), currency),
		FinalCost:      FormatMoney(final, currency),
	}
	return b
}
