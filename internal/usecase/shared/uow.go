package shared

import (
	"context"
	"time"

	"gatherly/internal/domain/event"
	"gatherly/internal/domain/order"
	"gatherly/internal/domain/rsvp"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Events() EventRepository
	RSVPs() RSVPRepository
	Orders() OrderRepository
	Idempotency() IdempotencyRepository
	Carts() CartRepository
	Subscriptions() SubscriptionRepository
}

type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	// AcquireAdmissionLock serializes every capacity-affecting mutation for
	// one event. The lock is transaction-scoped and released at
	// commit/rollback; different events never contend.
	AcquireAdmissionLock(ctx context.Context, id uuid.UUID) error
}

type RSVPSnapshot struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	UserID      uuid.UUID
	Status      rsvp.Status
	Attendance  rsvp.AttendanceState
	CheckInCode *string
	CheckedInAt *time.Time
	CreatedAt   time.Time
}

type UpsertRSVPParams struct {
	EventID     uuid.UUID
	UserID      uuid.UUID
	Status      rsvp.Status
	Attendance  rsvp.AttendanceState
	CheckInCode *string
}

type RSVPRepository interface {
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*RSVPSnapshot, error)
	FindConfirmedByCode(ctx context.Context, eventID uuid.UUID, code string) (*RSVPSnapshot, error)
	Upsert(ctx context.Context, params UpsertRSVPParams) (*RSVPSnapshot, error)
	CountConfirmedGoing(ctx context.Context, eventID uuid.UUID) (int, error)
	CountWaitlisted(ctx context.Context, eventID uuid.UUID) (int, error)
	// OldestWaitlisted returns queued GOING rows ordered by createdAt with
	// insertion order as the tiebreak. FIFO promotion depends on it.
	OldestWaitlisted(ctx context.Context, eventID uuid.UUID, limit int) ([]rsvp.WaitlistEntry, error)
	// PromoteToConfirmed flips a waitlisted row to confirmed. code is the
	// badge code to issue if the row has none yet; rows that already hold a
	// code keep it.
	PromoteToConfirmed(ctx context.Context, rsvpID uuid.UUID, code string) error
	SetCheckedIn(ctx context.Context, rsvpID uuid.UUID, at time.Time) error
}

type OrderItemSnapshot struct {
	EventID         uuid.UUID
	UnitAmountCents int64
	Quantity        int32
}

type OrderSnapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Status     order.Status
	TotalCents int64
	Currency   string
	SessionRef *string
	PaymentRef *string
	Items      []OrderItemSnapshot
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	// FindByIDForUpdate row-locks the order so concurrent webhook
	// deliveries for the same order serialize on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	SetGatewaySession(ctx context.Context, id uuid.UUID, sessionRef string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error
	MarkCanceled(ctx context.Context, id uuid.UUID) error
}

type IdempotencyStatus string

const (
	IdempotencyPending   IdempotencyStatus = "pending"
	IdempotencyCompleted IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Route        string
	Key          uuid.UUID
	OwnerID      *uuid.UUID
	Status       IdempotencyStatus
	StatusCode   *int32
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	// TryInsert claims (route, key) as PENDING. The storage layer's unique
	// constraint arbitrates concurrent claims: losers get KindConflict.
	TryInsert(ctx context.Context, route string, key uuid.UUID, ownerID *uuid.UUID, expiresAt time.Time) error
	Find(ctx context.Context, route string, key uuid.UUID) (*IdempotencyRecord, error)
	Complete(ctx context.Context, route string, key uuid.UUID, statusCode int, responseBody []byte) error
	// Delete releases a claim whose execution failed before any side
	// effect, so the caller can retry with the same key immediately.
	Delete(ctx context.Context, route string, key uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type CartRepository interface {
	RemoveEventItems(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) error
}

type SubscriptionUpsertParams struct {
	UserID             uuid.UUID
	GatewayCustomerRef string
	GatewaySubRef      string
	Plan               string
	Status             string
	CurrentPeriodEnd   *time.Time
}

type SubscriptionRepository interface {
	Upsert(ctx context.Context, params SubscriptionUpsertParams) error
}
