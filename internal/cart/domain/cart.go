package domain

import "github.com/shopspring/decimal"

// CartLine is one product/variant row of the cart. LineID stays empty until
// the server confirms the row, which is how a pending optimistic insert is
// told apart from a confirmed one.
type CartLine struct {
	ProductID string
	LineID    string
	Name      string
	ImageURL  string
	UnitPrice decimal.Decimal
	Quantity  int
	Variant   string
	Dietary   string
}

// Key identifies the line for the one-line-per-(product, variant) invariant.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Variant: l.Variant}
}

type LineKey struct {
	ProductID string
	Variant   string
}

type AppliedCoupon struct {
	Code     string
	Discount decimal.Decimal
	MinOrder decimal.Decimal
}

// Subtotal is the locally derived items total. Server-side totals can lag
// behind live discount windows, so displayed totals always come from here.
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
