package response

import (
	"gatherly/internal/usecase/commands"
)

type CheckoutResponse struct {
	OrderID     string `json:"orderId"`
	SessionRef  string `json:"sessionRef"`
	RedirectURL string `json:"redirectUrl"`
	TotalCents  int64  `json:"totalCents"`
	Currency    string `json:"currency"`
}

func FromCheckoutResult(result *commands.BeginCheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		OrderID:     result.Response.OrderID.String(),
		SessionRef:  result.Response.SessionRef,
		RedirectURL: result.Response.RedirectURL,
		TotalCents:  result.Response.TotalCents,
		Currency:    result.Response.Currency,
	}
}
