package app

import (
	"github.com/quickbites/cartsync/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// State is the store's full view model. Consumers only ever see copies.
type State struct {
	Items       []domain.CartLine
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	FinalTotal  decimal.Decimal
	Coupon      *domain.AppliedCoupon
	Loading     bool
	Open        bool
}

func emptyState() State {
	return State{
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
		Tax:         decimal.Zero,
		Discount:    decimal.Zero,
		FinalTotal:  decimal.Zero,
	}
}

func (st State) clone() State {
	out := st
	if st.Items != nil {
		out.Items = make([]domain.CartLine, len(st.Items))
		copy(out.Items, st.Items)
	}
	if st.Coupon != nil {
		c := *st.Coupon
		out.Coupon = &c
	}
	return out
}

// recomputeLocal rebuilds the totals that are derivable without the server.
// Fees and coupon discount are only known to the billing endpoint, so they
// are zeroed until the next authoritative fetch; until then the final total
// is just the items total.
func recomputeLocal(st *State) {
	st.Subtotal = domain.Subtotal(st.Items)
	st.DeliveryFee = decimal.Zero
	st.Tax = decimal.Zero
	st.Discount = decimal.Zero
	st.FinalTotal = st.Subtotal
}
