package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testProduct(discount int64, expires *time.Time) Product {
	return Product{
		ID:    "p1",
		Name:  "Margherita",
		Price: decimal.NewFromInt(100),
		Variants: []Variant{
			{Name: "Regular", Price: decimal.NewFromInt(100)},
			{Name: "Large", Price: decimal.NewFromInt(150)},
		},
		DiscountPercent:   discount,
		DiscountExpiresAt: expires,
	}
}

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("base price, no discount", func(t *testing.T) {
		got := EffectivePrice(testProduct(0, nil), "", now)
		if !got.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("got %s, want 100", got)
		}
	})

	t.Run("variant price by name", func(t *testing.T) {
		got := EffectivePrice(testProduct(0, nil), "Large", now)
		if !got.Equal(decimal.NewFromInt(150)) {
			t.Fatalf("got %s, want 150", got)
		}
	})

	t.Run("unknown variant falls back to base", func(t *testing.T) {
		got := EffectivePrice(testProduct(0, nil), "Mega", now)
		if !got.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("got %s, want 100", got)
		}
	})

	t.Run("discount applies to variant price", func(t *testing.T) {
		got := EffectivePrice(testProduct(20, nil), "Large", now)
		if !got.Equal(decimal.NewFromInt(120)) {
			t.Fatalf("got %s, want 120", got)
		}
	})

	t.Run("discount with future expiry still applies", func(t *testing.T) {
		got := EffectivePrice(testProduct(20, &future), "Large", now)
		if !got.Equal(decimal.NewFromInt(120)) {
			t.Fatalf("got %s, want 120", got)
		}
	})

	t.Run("expired discount ignored", func(t *testing.T) {
		got := EffectivePrice(testProduct(20, &past), "Large", now)
		if !got.Equal(decimal.NewFromInt(150)) {
			t.Fatalf("got %s, want 150", got)
		}
	})

	t.Run("discounted price rounds to nearest rupee", func(t *testing.T) {
		p := testProduct(15, nil)
		p.Price = decimal.NewFromInt(99)
		// 99 * 0.85 = 84.15 -> 84
		got := EffectivePrice(p, "", now)
		if !got.Equal(decimal.NewFromInt(84)) {
			t.Fatalf("got %s, want 84", got)
		}
	})
}

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: decimal.NewFromInt(120), Quantity: 2},
		{UnitPrice: decimal.NewFromInt(80), Quantity: 1},
	}
	if got := Subtotal(lines); !got.Equal(decimal.NewFromInt(320)) {
		t.Fatalf("got %s, want 320", got)
	}
	if got := Subtotal(nil); !got.Equal(decimal.Zero) {
		t.Fatalf("empty cart subtotal = %s, want 0", got)
	}
}
