package app

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// APIError is a non-2xx response from the cart service. Message, when
// present, is safe to show to the user as-is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cart service: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("cart service: status %d", e.Status)
}

// MinOrderError is the coupon-minimum-not-met rejection. Required is the
// order value the coupon demands, so the caller can compute the shortfall
// against the current cart total.
type MinOrderError struct {
	Required decimal.Decimal
	Message  string
}

func (e *MinOrderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("minimum order value ₹%s not met", e.Required)
}

func userMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
