package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog projection embedded in cart responses. It carries
// just enough to re-derive the current per-unit price on the client.
type Product struct {
	ID                string
	Name              string
	ImageURL          string
	Price             decimal.Decimal
	Variants          []Variant
	DiscountPercent   int64
	DiscountExpiresAt *time.Time
	Dietary           string
}

type Variant struct {
	Name  string
	Price decimal.Decimal
}
