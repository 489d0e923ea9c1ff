package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("order item quantity must be positive")
	ErrInvalidUnitAmount = errors.New("order item unit amount cannot be negative")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
	StatusRefunded Status = "refunded"
)

func (s Status) String() string { return string(s) }

// CanMarkPaid reports whether a completed-checkout notification may move
// the order to PAID. A PAID order stays PAID so duplicate webhook
// deliveries become no-ops.
func (s Status) CanMarkPaid() bool {
	return s == StatusPending
}

// CanCancel reports whether an expired-checkout notification may cancel
// the order. Anything already paid or canceled is left alone.
func (s Status) CanCancel() bool {
	return s == StatusPending
}

type Item struct {
	EventID         uuid.UUID
	UnitAmountCents int64
	Quantity        int32
}

type Order struct {
	id         uuid.UUID
	userID     uuid.UUID
	status     Status
	totalCents int64
	currency   string
	items      []Item
	createdAt  time.Time
}

// New builds a PENDING order at checkout start. The total is derived from
// the items rather than trusted from the caller.
func New(userID uuid.UUID, currency string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	var total int64
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitAmountCents < 0 {
			return nil, ErrInvalidUnitAmount
		}
		total += it.UnitAmountCents * int64(it.Quantity)
	}
	return &Order{
		id:         uuid.New(),
		userID:     userID,
		status:     StatusPending,
		totalCents: total,
		currency:   currency,
		items:      items,
	}, nil
}

func (o *Order) ID() uuid.UUID     { return o.id }
func (o *Order) UserID() uuid.UUID { return o.userID }
func (o *Order) Status() Status    { return o.status }
func (o *Order) TotalCents() int64 { return o.totalCents }
func (o *Order) Currency() string  { return o.currency }
func (o *Order) Items() []Item     { return o.items }
