package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quickbites/cartsync/internal/cart/app"
	"github.com/shopspring/decimal"
)

func TestGetCartDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("auth header = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Fatal("missing request id")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"_id": "L1",
					"product": {
						"_id": "P1",
						"name": "Margherita",
						"price": 100,
						"variants": [{"name": "Large", "price": 150}],
						"discountPercentage": 20,
						"type": "veg"
					},
					"price": 999,
					"quantity": 2,
					"variant": "Large"
				},
				{"_id": "L2", "product": "P2", "name": "Coke", "price": 40, "quantity": 1}
			],
			"appliedCoupon": {"code": "FEAST50", "discountAmount": 50, "minOrderValue": 500}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", srv.Client())
	cart, err := c.GetCart(context.Background())
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(cart.Lines))
	}

	l1 := cart.Lines[0]
	if l1.ID != "L1" || l1.ProductID != "P1" || l1.Variant != "Large" {
		t.Fatalf("line 1 = %+v", l1)
	}
	if l1.Product == nil || l1.Product.DiscountPercent != 20 || len(l1.Product.Variants) != 1 {
		t.Fatalf("embedded product = %+v", l1.Product)
	}
	if l1.Product.Dietary != "veg" {
		t.Fatalf("dietary = %q", l1.Product.Dietary)
	}

	l2 := cart.Lines[1]
	if l2.Product != nil {
		t.Fatal("bare id reference must not produce a product payload")
	}
	if l2.ProductID != "P2" || !l2.Price.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("line 2 = %+v", l2)
	}

	if cart.Coupon == nil || cart.Coupon.Code != "FEAST50" || !cart.Coupon.MinOrder.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("coupon = %+v", cart.Coupon)
	}
}

func TestGetBillMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/bill" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"itemsTotal": 600, "shipping": 40, "discount": 50, "finalTotal": 590}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	bill, err := c.GetBill(context.Background())
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if !bill.DeliveryFee.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("deliveryFee = %s, want 40 (mapped from shipping)", bill.DeliveryFee)
	}
	if !bill.FinalTotal.Equal(decimal.NewFromInt(590)) {
		t.Fatalf("finalTotal = %s", bill.FinalTotal)
	}
	if bill.Coupon != nil {
		t.Fatalf("coupon = %+v, want nil", bill.Coupon)
	}
}

func TestMutationEndpoints(t *testing.T) {
	type seen struct {
		method, path string
		body         map[string]any
	}
	var last seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = seen{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&last.body)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	ctx := context.Background()

	t.Run("add item", func(t *testing.T) {
		if err := c.AddItem(ctx, "P1", 1); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodPost || last.path != "/cart/items" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
		if last.body["productId"] != "P1" || last.body["quantity"] != float64(1) {
			t.Fatalf("body = %v", last.body)
		}
	})

	t.Run("set quantity", func(t *testing.T) {
		if err := c.SetQuantity(ctx, "L1", 3); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodPut || last.path != "/cart/items/L1" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
		if last.body["quantity"] != float64(3) {
			t.Fatalf("body = %v", last.body)
		}
	})

	t.Run("remove item", func(t *testing.T) {
		if err := c.RemoveItem(ctx, "L1"); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodDelete || last.path != "/cart/items/L1" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := c.Clear(ctx); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodDelete || last.path != "/cart" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
	})

	t.Run("apply coupon", func(t *testing.T) {
		if err := c.ApplyCoupon(ctx, "FEAST50"); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodPost || last.path != "/cart/coupon" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
		if last.body["code"] != "FEAST50" {
			t.Fatalf("body = %v", last.body)
		}
	})

	t.Run("remove coupon", func(t *testing.T) {
		if err := c.RemoveCoupon(ctx); err != nil {
			t.Fatal(err)
		}
		if last.method != http.MethodDelete || last.path != "/cart/coupon" {
			t.Fatalf("got %s %s", last.method, last.path)
		}
	})
}

func TestErrorDecoding(t *testing.T) {
	serve := func(status int, body string) *Client {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(srv.Close)
		return NewClient(srv.URL, "", srv.Client())
	}
	ctx := context.Background()

	t.Run("structured min order code", func(t *testing.T) {
		c := serve(http.StatusBadRequest, `{"code": "MIN_ORDER_NOT_MET", "message": "Minimum order value is 500", "required": 500}`)
		err := c.ApplyCoupon(ctx, "FEAST50")
		var minErr *app.MinOrderError
		if !errors.As(err, &minErr) {
			t.Fatalf("got %T: %v", err, err)
		}
		if !minErr.Required.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("required = %s", minErr.Required)
		}
	})

	t.Run("minimum parsed out of free-text message", func(t *testing.T) {
		c := serve(http.StatusBadRequest, `{"message": "Minimum order value of 500 required for this coupon"}`)
		err := c.ApplyCoupon(ctx, "FEAST50")
		var minErr *app.MinOrderError
		if !errors.As(err, &minErr) {
			t.Fatalf("got %T: %v", err, err)
		}
		if !minErr.Required.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("required = %s", minErr.Required)
		}
	})

	t.Run("plain message stays an api error", func(t *testing.T) {
		c := serve(http.StatusBadRequest, `{"message": "coupon expired"}`)
		err := c.ApplyCoupon(ctx, "OLD10")
		var apiErr *app.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T: %v", err, err)
		}
		if apiErr.Message != "coupon expired" || apiErr.Status != http.StatusBadRequest {
			t.Fatalf("apiErr = %+v", apiErr)
		}
	})

	t.Run("non-json body", func(t *testing.T) {
		c := serve(http.StatusBadGateway, "upstream timeout")
		err := c.Clear(ctx)
		var apiErr *app.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T: %v", err, err)
		}
		if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream timeout" {
			t.Fatalf("apiErr = %+v", apiErr)
		}
	})
}
