package request

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WebhookEnvelope is the signed event wrapper delivered by the payment
// gateway. Data stays raw until the event type is known.
type WebhookEnvelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	WebhookCheckoutCompleted   = "checkout.session.completed"
	WebhookCheckoutExpired     = "checkout.session.expired"
	WebhookSubscriptionChanged = "customer.subscription.changed"
)

type CheckoutCompletedData struct {
	OrderID    uuid.UUID `json:"order_id"`
	PaymentRef string    `json:"payment_ref"`
}

type CheckoutExpiredData struct {
	OrderID uuid.UUID `json:"order_id"`
}

type SubscriptionChangedData struct {
	UserID             uuid.UUID  `json:"user_id"`
	GatewayCustomerRef string     `json:"customer_ref"`
	GatewaySubRef      string     `json:"subscription_ref"`
	Plan               string     `json:"plan"`
	Status             string     `json:"status"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
}
