//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"gatherly/internal/domain/event"
	"gatherly/internal/domain/order"
	"gatherly/internal/domain/rsvp"
	"gatherly/internal/infra"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-in for the Postgres-backed unit of work. It mirrors the
// storage semantics the commands depend on: single (user, event) RSVP row,
// createdAt-anchored FIFO order, code preservation on rewrite, and guarded
// check-in and order transitions.

type memStore struct {
	mu sync.Mutex

	events map[uuid.UUID]*event.Event

	rsvps     []*shared.RSVPSnapshot
	rsvpClock time.Time

	orders     map[uuid.UUID]*shared.OrderSnapshot
	cartsWiped []cartWipe

	idempotency map[string]*shared.IdempotencyRecord

	subscriptions map[uuid.UUID]shared.SubscriptionUpsertParams
}

type cartWipe struct {
	userID   uuid.UUID
	eventIDs []uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		events:        make(map[uuid.UUID]*event.Event),
		rsvpClock:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		orders:        make(map[uuid.UUID]*shared.OrderSnapshot),
		idempotency:   make(map[string]*shared.IdempotencyRecord),
		subscriptions: make(map[uuid.UUID]shared.SubscriptionUpsertParams),
	}
}

func (s *memStore) addEvent(ev *event.Event) {
	s.events[ev.ID()] = ev
}

func (s *memStore) findRSVP(userID, eventID uuid.UUID) *shared.RSVPSnapshot {
	for _, r := range s.rsvps {
		if r.UserID == userID && r.EventID == eventID {
			return r
		}
	}
	return nil
}

// memUoW runs the function against the shared store. There is no real
// transaction; tests exercise sequential semantics only.
type memUoW struct {
	store *memStore
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &memTx{store: u.store})
}

type memTx struct {
	store *memStore
}

func (t *memTx) Events() shared.EventRepository {
	return &memEventRepo{store: t.store}
}

func (t *memTx) RSVPs() shared.RSVPRepository {
	return &memRSVPRepo{store: t.store}
}

func (t *memTx) Orders() shared.OrderRepository {
	return &memOrderRepo{store: t.store}
}

func (t *memTx) Idempotency() shared.IdempotencyRepository {
	return &memIdempotencyRepo{store: t.store}
}

func (t *memTx) Carts() shared.CartRepository {
	return &memCartRepo{store: t.store}
}

func (t *memTx) Subscriptions() shared.SubscriptionRepository {
	return &memSubscriptionRepo{store: t.store}
}

type memEventRepo struct {
	store *memStore
}

func (r *memEventRepo) FindByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	ev, ok := r.store.events[id]
	if !ok {
		return nil, infra.WrapRepoErr("event not found", nil, infra.KindNotFound)
	}
	return ev, nil
}

func (r *memEventRepo) AcquireAdmissionLock(_ context.Context, _ uuid.UUID) error {
	return nil
}

type memRSVPRepo struct {
	store *memStore
}

func (r *memRSVPRepo) FindByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*shared.RSVPSnapshot, error) {
	if snap := r.store.findRSVP(userID, eventID); snap != nil {
		cp := *snap
		return &cp, nil
	}
	return nil, infra.WrapRepoErr("rsvp not found", nil, infra.KindNotFound)
}

func (r *memRSVPRepo) FindConfirmedByCode(_ context.Context, eventID uuid.UUID, code string) (*shared.RSVPSnapshot, error) {
	for _, snap := range r.store.rsvps {
		if snap.EventID == eventID &&
			snap.CheckInCode != nil && *snap.CheckInCode == code &&
			snap.Status == rsvp.StatusGoing && snap.Attendance == rsvp.AttendanceConfirmed {
			cp := *snap
			return &cp, nil
		}
	}
	return nil, infra.WrapRepoErr("no confirmed rsvp for code", nil, infra.KindNotFound)
}

func (r *memRSVPRepo) Upsert(_ context.Context, params shared.UpsertRSVPParams) (*shared.RSVPSnapshot, error) {
	if existing := r.store.findRSVP(params.UserID, params.EventID); existing != nil {
		// status re-entry to GOING resets queue position, same as the SQL
		// upsert's created_at CASE
		if existing.Status != params.Status && params.Status == rsvp.StatusGoing {
			r.store.rsvpClock = r.store.rsvpClock.Add(time.Second)
			existing.CreatedAt = r.store.rsvpClock
		}
		existing.Status = params.Status
		existing.Attendance = params.Attendance
		if existing.CheckInCode == nil {
			existing.CheckInCode = params.CheckInCode
		}
		cp := *existing
		return &cp, nil
	}

	r.store.rsvpClock = r.store.rsvpClock.Add(time.Second)
	snap := &shared.RSVPSnapshot{
		ID:          uuid.New(),
		EventID:     params.EventID,
		UserID:      params.UserID,
		Status:      params.Status,
		Attendance:  params.Attendance,
		CheckInCode: params.CheckInCode,
		CreatedAt:   r.store.rsvpClock,
	}
	r.store.rsvps = append(r.store.rsvps, snap)
	cp := *snap
	return &cp, nil
}

func (r *memRSVPRepo) CountConfirmedGoing(_ context.Context, eventID uuid.UUID) (int, error) {
	return r.count(eventID, rsvp.AttendanceConfirmed), nil
}

func (r *memRSVPRepo) CountWaitlisted(_ context.Context, eventID uuid.UUID) (int, error) {
	return r.count(eventID, rsvp.AttendanceWaitlisted), nil
}

func (r *memRSVPRepo) count(eventID uuid.UUID, state rsvp.AttendanceState) int {
	n := 0
	for _, snap := range r.store.rsvps {
		if snap.EventID == eventID && snap.Status == rsvp.StatusGoing && snap.Attendance == state {
			n++
		}
	}
	return n
}

func (r *memRSVPRepo) OldestWaitlisted(_ context.Context, eventID uuid.UUID, limit int) ([]rsvp.WaitlistEntry, error) {
	var queued []*shared.RSVPSnapshot
	for _, snap := range r.store.rsvps {
		if snap.EventID == eventID && snap.Status == rsvp.StatusGoing && snap.Attendance == rsvp.AttendanceWaitlisted {
			queued = append(queued, snap)
		}
	}
	// createdAt ordering, not insertion order: re-entry refreshes createdAt
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].CreatedAt.Before(queued[j].CreatedAt)
	})

	var entries []rsvp.WaitlistEntry
	for _, snap := range queued {
		if len(entries) == limit {
			break
		}
		entries = append(entries, rsvp.WaitlistEntry{RSVPID: snap.ID, UserID: snap.UserID})
	}
	return entries, nil
}

func (r *memRSVPRepo) PromoteToConfirmed(_ context.Context, rsvpID uuid.UUID, code string) error {
	for _, snap := range r.store.rsvps {
		if snap.ID == rsvpID {
			snap.Attendance = rsvp.AttendanceConfirmed
			if snap.CheckInCode == nil {
				snap.CheckInCode = &code
			}
			return nil
		}
	}
	return infra.WrapRepoErr("rsvp to promote not found", nil, infra.KindNotFound)
}

func (r *memRSVPRepo) SetCheckedIn(_ context.Context, rsvpID uuid.UUID, at time.Time) error {
	for _, snap := range r.store.rsvps {
		if snap.ID == rsvpID {
			if snap.CheckedInAt != nil {
				return infra.WrapRepoErr("rsvp already checked in", nil, infra.KindConflict)
			}
			t := at
			snap.CheckedInAt = &t
			return nil
		}
	}
	return infra.WrapRepoErr("rsvp not found", nil, infra.KindConflict)
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Create(_ context.Context, o *order.Order) error {
	items := make([]shared.OrderItemSnapshot, len(o.Items()))
	for i, it := range o.Items() {
		items[i] = shared.OrderItemSnapshot{
			EventID:         it.EventID,
			UnitAmountCents: it.UnitAmountCents,
			Quantity:        it.Quantity,
		}
	}
	r.store.orders[o.ID()] = &shared.OrderSnapshot{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status(),
		TotalCents: o.TotalCents(),
		Currency:   o.Currency(),
		Items:      items,
	}
	return nil
}

func (r *memOrderRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	snap, ok := r.store.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *memOrderRepo) SetGatewaySession(_ context.Context, id uuid.UUID, sessionRef string) error {
	snap, ok := r.store.orders[id]
	if !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	snap.SessionRef = &sessionRef
	return nil
}

func (r *memOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, paymentRef string) error {
	snap, ok := r.store.orders[id]
	if !ok || snap.Status != order.StatusPending {
		return infra.WrapRepoErr("order not in a payable state", nil, infra.KindConflict)
	}
	snap.Status = order.StatusPaid
	snap.PaymentRef = &paymentRef
	return nil
}

func (r *memOrderRepo) MarkCanceled(_ context.Context, id uuid.UUID) error {
	snap, ok := r.store.orders[id]
	if !ok || snap.Status != order.StatusPending {
		return infra.WrapRepoErr("order not cancelable", nil, infra.KindConflict)
	}
	snap.Status = order.StatusCanceled
	return nil
}

type memIdempotencyRepo struct {
	store *memStore
}

func idemKey(route string, key uuid.UUID) string {
	return route + "|" + key.String()
}

func (r *memIdempotencyRepo) TryInsert(_ context.Context, route string, key uuid.UUID, ownerID *uuid.UUID, expiresAt time.Time) error {
	k := idemKey(route, key)
	if _, exists := r.store.idempotency[k]; exists {
		return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindConflict)
	}
	r.store.idempotency[k] = &shared.IdempotencyRecord{
		Route:     route,
		Key:       key,
		OwnerID:   ownerID,
		Status:    shared.IdempotencyPending,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (r *memIdempotencyRepo) Find(_ context.Context, route string, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, exists := r.store.idempotency[idemKey(route, key)]
	if !exists {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (r *memIdempotencyRepo) Complete(_ context.Context, route string, key uuid.UUID, statusCode int, responseBody []byte) error {
	rec, exists := r.store.idempotency[idemKey(route, key)]
	if !exists {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	code := int32(statusCode)
	rec.Status = shared.IdempotencyCompleted
	rec.StatusCode = &code
	rec.ResponseBody = responseBody
	return nil
}

func (r *memIdempotencyRepo) Delete(_ context.Context, route string, key uuid.UUID) error {
	k := idemKey(route, key)
	if _, exists := r.store.idempotency[k]; !exists {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	delete(r.store.idempotency, k)
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type memCartRepo struct {
	store *memStore
}

func (r *memCartRepo) RemoveEventItems(_ context.Context, userID uuid.UUID, eventIDs []uuid.UUID) error {
	r.store.cartsWiped = append(r.store.cartsWiped, cartWipe{userID: userID, eventIDs: eventIDs})
	return nil
}

type memSubscriptionRepo struct {
	store *memStore
}

func (r *memSubscriptionRepo) Upsert(_ context.Context, params shared.SubscriptionUpsertParams) error {
	r.store.subscriptions[params.UserID] = params
	return nil
}

// recordingNotifier captures fire-and-forget sends for assertion.
type recordingNotifier struct {
	mu    sync.Mutex
	sends []notification
}

type notification struct {
	userID   uuid.UUID
	template string
	data     map[string]any
}

func (n *recordingNotifier) Send(_ context.Context, userID uuid.UUID, template string, data map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, notification{userID: userID, template: template, data: data})
}

func (n *recordingNotifier) sent(userID uuid.UUID, template string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.sends {
		if s.userID == userID && s.template == template {
			return true
		}
	}
	return false
}

// stubGateway counts session creations and can be told to fail.
type stubGateway struct {
	calls int
	fail  error
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, params commands.CheckoutSessionParams) (*commands.CheckoutSession, error) {
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	return &commands.CheckoutSession{
		SessionRef:  "sess_" + params.OrderID.String()[:8],
		RedirectURL: "https://pay.example.com/s/" + params.OrderID.String()[:8],
	}, nil
}

func cap32(v int32) *int32 { return &v }
