package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gatherly/internal/pkg/config"
	"gatherly/internal/pkg/errs"
	"gatherly/internal/usecase/commands"
)

// Client talks to the payment gateway's REST API. Session creation is
// scoped by the caller's idempotency token so a retried request cannot
// open a second paid session for the same order.
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type createSessionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type createSessionResponse struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params commands.CheckoutSessionParams) (*commands.CheckoutSession, error) {
	payload, err := json.Marshal(createSessionRequest{
		AmountCents: params.TotalCents,
		Currency:    params.Currency,
		Reference:   params.OrderID.String(),
		SuccessURL:  c.successURL,
		CancelURL:   c.cancelURL,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode checkout session request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build checkout session request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", params.IdempotencyKey.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "checkout session request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Wrap(err, "failed to read checkout session response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.New(fmt.Sprintf("gateway rejected checkout session: status %d", resp.StatusCode))
	}

	var out createSessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errs.Wrap(err, "failed to decode checkout session response")
	}
	if out.ID == "" {
		return nil, errs.New("gateway returned empty session id")
	}

	return &commands.CheckoutSession{
		SessionRef:  out.ID,
		RedirectURL: out.RedirectURL,
	}, nil
}
