package commands

import (
	"context"

	"github.com/google/uuid"
)

type CheckoutSessionParams struct {
	OrderID        uuid.UUID
	UserID         uuid.UUID
	TotalCents     int64
	Currency       string
	IdempotencyKey uuid.UUID
}

type CheckoutSession struct {
	SessionRef  string
	RedirectURL string
}

// PaymentGateway is the external checkout provider. Session creation is
// idempotency-token-scoped on the gateway side; webhook delivery comes
// back through PaymentCommands.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

// Notifier is fire-and-forget: implementations log failures and never
// return them, so notification trouble cannot undo a committed admission.
type Notifier interface {
	Send(ctx context.Context, userID uuid.UUID, template string, data map[string]any)
}
