package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickbites/cartsync/internal/cart/app"
)

// Client talks to the cart service's REST API and implements app.CartService.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

func (c *Client) GetCart(ctx context.Context) (app.RemoteCart, error) {
	var payload wireCart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &payload); err != nil {
		return app.RemoteCart{}, err
	}
	return payload.toRemote(), nil
}

func (c *Client) GetBill(ctx context.Context) (app.Bill, error) {
	var payload wireBill
	if err := c.do(ctx, http.MethodGet, "/cart/bill", nil, &payload); err != nil {
		return app.Bill{}, err
	}
	return payload.toBill(), nil
}

func (c *Client) AddItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/cart/items", body, nil)
}

func (c *Client) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return c.do(ctx, http.MethodPut, "/cart/items/"+lineID, body, nil)
}

func (c *Client) RemoveItem(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+lineID, nil, nil)
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

func (c *Client) ApplyCoupon(ctx context.Context, code string) error {
	body := map[string]any{"code": code}
	return c.do(ctx, http.MethodPost, "/cart/coupon", body, nil)
}

func (c *Client) RemoveCoupon(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/coupon", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
