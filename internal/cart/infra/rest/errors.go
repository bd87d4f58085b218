package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/quickbites/cartsync/internal/cart/app"
	"github.com/shopspring/decimal"
)

const codeMinOrderNotMet = "MIN_ORDER_NOT_MET"

type wireError struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Required *decimal.Decimal `json:"required"`
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var we wireError
	if err := json.Unmarshal(body, &we); err != nil || (we.Code == "" && we.Message == "") {
		return &app.APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if we.Code == codeMinOrderNotMet && we.Required != nil {
		return &app.MinOrderError{Required: *we.Required, Message: we.Message}
	}

	// Older backends report the coupon minimum only inside the free-text
	// message. Number extraction is kept as a fallback for those.
	if required, ok := minOrderFromMessage(we.Message); ok {
		return &app.MinOrderError{Required: required, Message: we.Message}
	}

	return &app.APIError{Status: resp.StatusCode, Code: we.Code, Message: we.Message}
}

var (
	minOrderHint = regexp.MustCompile(`(?i)min(?:imum)? order`)
	firstNumber  = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

func minOrderFromMessage(msg string) (decimal.Decimal, bool) {
	if !minOrderHint.MatchString(msg) {
		return decimal.Zero, false
	}
	raw := firstNumber.FindString(msg)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
