package app

import (
	"context"

	"github.com/quickbites/cartsync/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// CartService is the remote collaborator owning the authoritative cart.
type CartService interface {
	GetCart(ctx context.Context) (RemoteCart, error)
	GetBill(ctx context.Context) (Bill, error)
	AddItem(ctx context.Context, productID string, quantity int) error
	SetQuantity(ctx context.Context, lineID string, quantity int) error
	RemoveItem(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) error
	RemoveCoupon(ctx context.Context) error
}

// RemoteCart is the server's persisted cart. Line prices here may be stale;
// the store re-derives effective prices from the embedded product payloads.
type RemoteCart struct {
	Lines  []RemoteLine
	Coupon *domain.AppliedCoupon
}

type RemoteLine struct {
	ID        string
	ProductID string
	// Product is the embedded catalog projection when the server expanded
	// the reference, nil when only ProductID came back.
	Product  *domain.Product
	Name     string
	ImageURL string
	Price    decimal.Decimal
	Quantity int
	Variant  string
	Dietary  string
}

// Bill is the server-side billing computation: fees and coupon discount are
// only known there, the items total is recomputed locally regardless.
type Bill struct {
	ItemsTotal  decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	FinalTotal  decimal.Decimal
	Coupon      *domain.AppliedCoupon
}

// Notifier delivers user-facing toasts. The store never renders UI itself.
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Warn(string)    {}
func (NopNotifier) Error(string)   {}
