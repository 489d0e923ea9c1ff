package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gatherly/internal/domain/order"
	"gatherly/internal/pkg/errs"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidOrder     = errs.New("order validation failed")
	ErrGatewayFailed    = errs.New("payment gateway call failed")
	ErrCheckoutInternal = errs.New("checkout failed")
)

const (
	checkoutRoute          = "POST /checkout"
	checkoutIdempotencyTTL = 24 * time.Hour
)

type CheckoutItem struct {
	EventID         uuid.UUID
	UnitAmountCents int64
	Quantity        int32
}

// CheckoutResponse is the wire shape stored by the idempotency record, so
// a replayed request returns byte-identical output.
type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	SessionRef  string    `json:"sessionRef"`
	RedirectURL string    `json:"redirectUrl"`
	TotalCents  int64     `json:"totalCents"`
	Currency    string    `json:"currency"`
}

type BeginCheckoutResult struct {
	Response CheckoutResponse
	Replayed bool
}

type CheckoutCommands interface {
	BeginCheckout(ctx context.Context, userID uuid.UUID, currency string, items []CheckoutItem, idempotencyKey uuid.UUID) (*BeginCheckoutResult, error)
}

type checkoutUseCaseImpl struct {
	uow     shared.UnitOfWork
	guard   *shared.IdempotencyGuard
	gateway PaymentGateway
}

func NewCheckoutUseCase(uow shared.UnitOfWork, guard *shared.IdempotencyGuard, gateway PaymentGateway) CheckoutCommands {
	return &checkoutUseCaseImpl{
		uow:     uow,
		guard:   guard,
		gateway: gateway,
	}
}

// BeginCheckout opens a gateway session for a new PENDING order. The order
// row is only committed together with the COMPLETED idempotency record,
// after the gateway call succeeds: a gateway failure leaves nothing
// behind, so retrying with the same key cannot create a duplicate order.
func (c *checkoutUseCaseImpl) BeginCheckout(ctx context.Context, userID uuid.UUID, currency string, items []CheckoutItem, idempotencyKey uuid.UUID) (*BeginCheckoutResult, error) {
	claim, err := c.guard.Begin(ctx, checkoutRoute, idempotencyKey, &userID, checkoutIdempotencyTTL)
	if err != nil {
		return nil, err
	}
	if claim.Outcome == shared.OutcomeReplay {
		var resp CheckoutResponse
		if err := json.Unmarshal(claim.Replay.Body, &resp); err != nil {
			return nil, errs.Mark(err, ErrCheckoutInternal)
		}
		return &BeginCheckoutResult{Response: resp, Replayed: true}, nil
	}

	result, err := c.createOrderAndSession(ctx, userID, currency, items, idempotencyKey, claim.Outcome)
	if err != nil && claim.Outcome == shared.OutcomeClaimed {
		// Nothing was committed; free the key so an immediate retry works.
		if releaseErr := c.guard.Release(ctx, checkoutRoute, idempotencyKey); releaseErr != nil {
			slog.Warn("failed to release idempotency claim", "route", checkoutRoute, "error", releaseErr.Error())
		}
	}
	return result, err
}

func (c *checkoutUseCaseImpl) createOrderAndSession(ctx context.Context, userID uuid.UUID, currency string, items []CheckoutItem, idempotencyKey uuid.UUID, outcome shared.IdempotencyOutcome) (*BeginCheckoutResult, error) {
	domainItems := make([]order.Item, len(items))
	for i, it := range items {
		domainItems[i] = order.Item{
			EventID:         it.EventID,
			UnitAmountCents: it.UnitAmountCents,
			Quantity:        it.Quantity,
		}
	}

	o, err := order.New(userID, currency, domainItems)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidOrder)
	}

	session, err := c.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		OrderID:        o.ID(),
		UserID:         userID,
		TotalCents:     o.TotalCents(),
		Currency:       o.Currency(),
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailed)
	}

	response := CheckoutResponse{
		OrderID:     o.ID(),
		SessionRef:  session.SessionRef,
		RedirectURL: session.RedirectURL,
		TotalCents:  o.TotalCents(),
		Currency:    o.Currency(),
	}
	body, err := json.Marshal(response)
	if err != nil {
		return nil, errs.Mark(err, ErrCheckoutInternal)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := tx.Orders().SetGatewaySession(ctx, o.ID(), session.SessionRef); err != nil {
			return err
		}
		if outcome == shared.OutcomeClaimed {
			return tx.Idempotency().Complete(ctx, checkoutRoute, idempotencyKey, http.StatusCreated, body)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrCheckoutInternal)
	}

	return &BeginCheckoutResult{Response: response, Replayed: false}, nil
}
