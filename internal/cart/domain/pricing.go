package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// EffectivePrice resolves the per-unit price that is valid right now for the
// given product and variant selection. The persisted cart-line price can go
// stale relative to live product and discount state, so callers re-derive the
// price from the product payload instead of trusting storage.
//
// Resolution order: variant price by exact name match (base price when the
// variant is unknown or unset), then the product discount, skipped when its
// expiry timestamp has passed. Discounted prices round to the nearest rupee.
func EffectivePrice(p Product, variant string, now time.Time) decimal.Decimal {
	price := p.Price
	if variant != "" {
		for _, v := range p.Variants {
			if v.Name == variant {
				price = v.Price
				break
			}
		}
	}

	if p.DiscountPercent <= 0 {
		return price
	}
	if p.DiscountExpiresAt != nil && p.DiscountExpiresAt.Before(now) {
		return price
	}

	factor := oneHundred.Sub(decimal.NewFromInt(p.DiscountPercent)).Div(oneHundred)
	return price.Mul(factor).Round(0)
}
