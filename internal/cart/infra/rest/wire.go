package rest

import (
	"encoding/json"
	"time"

	"github.com/quickbites/cartsync/internal/cart/app"
	"github.com/quickbites/cartsync/internal/cart/domain"
	"github.com/shopspring/decimal"
)

type wireCart struct {
	Items         []wireLine  `json:"items"`
	AppliedCoupon *wireCoupon `json:"appliedCoupon"`
}

type wireLine struct {
	ID       string          `json:"_id"`
	Product  productRef      `json:"product"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageURL"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Variant  string          `json:"variant"`
	Type     string          `json:"type"`
}

// productRef accepts both shapes the server sends for a line's product: the
// expanded catalog object or the bare id string.
type productRef struct {
	ID      string
	Product *wireProduct
}

func (r *productRef) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var p wireProduct
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	r.Product = &p
	r.ID = p.ID
	return nil
}

type wireProduct struct {
	ID                 string          `json:"_id"`
	Name               string          `json:"name"`
	ImageURL           string          `json:"imageURL"`
	Price              decimal.Decimal `json:"price"`
	Variants           []wireVariant   `json:"variants"`
	DiscountPercentage int64           `json:"discountPercentage"`
	DiscountExpiresAt  *time.Time      `json:"discountExpiresAt"`
	Type               string          `json:"type"`
}

type wireVariant struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type wireCoupon struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	MinOrderValue  decimal.Decimal `json:"minOrderValue"`
}

type wireBill struct {
	ItemsTotal    decimal.Decimal `json:"itemsTotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	FinalTotal    decimal.Decimal `json:"finalTotal"`
	AppliedCoupon *wireCoupon     `json:"appliedCoupon"`
}

func (w wireCart) toRemote() app.RemoteCart {
	out := app.RemoteCart{Coupon: w.AppliedCoupon.toDomain()}
	for _, l := range w.Items {
		out.Lines = append(out.Lines, app.RemoteLine{
			ID:        l.ID,
			ProductID: l.Product.ID,
			Product:   l.Product.Product.toDomain(),
			Name:      l.Name,
			ImageURL:  l.ImageURL,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Variant:   l.Variant,
			Dietary:   l.Type,
		})
	}
	return out
}

func (w wireBill) toBill() app.Bill {
	return app.Bill{
		ItemsTotal:  w.ItemsTotal,
		DeliveryFee: w.Shipping,
		Tax:         w.Tax,
		Discount:    w.Discount,
		FinalTotal:  w.FinalTotal,
		Coupon:      w.AppliedCoupon.toDomain(),
	}
}

func (w *wireProduct) toDomain() *domain.Product {
	if w == nil {
		return nil
	}
	p := &domain.Product{
		ID:                w.ID,
		Name:              w.Name,
		ImageURL:          w.ImageURL,
		Price:             w.Price,
		DiscountPercent:   w.DiscountPercentage,
		DiscountExpiresAt: w.DiscountExpiresAt,
		Dietary:           w.Type,
	}
	for _, v := range w.Variants {
		p.Variants = append(p.Variants, domain.Variant{Name: v.Name, Price: v.Price})
	}
	return p
}

func (w *wireCoupon) toDomain() *domain.AppliedCoupon {
	if w == nil {
		return nil
	}
	return &domain.AppliedCoupon{
		Code:     w.Code,
		Discount: w.DiscountAmount,
		MinOrder: w.MinOrderValue,
	}
}
