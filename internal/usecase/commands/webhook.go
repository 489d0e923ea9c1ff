package commands

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"gatherly/internal/domain/order"
	"gatherly/internal/domain/rsvp"
	"gatherly/internal/infra"
	"gatherly/internal/pkg/errs"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound   = errs.New("order not found")
	ErrOrderNotPayable = errs.New("order is not in a payable state")
)

const templatePaymentReceipt = "payment_receipt"

type SubscriptionEvent struct {
	UserID             uuid.UUID
	GatewayCustomerRef string
	GatewaySubRef      string
	Plan               string
	Status             string
	CurrentPeriodEnd   *time.Time
}

// PaymentCommands reconciles at-least-once, possibly duplicated or
// out-of-order gateway notifications against order and admission state.
// The envelope's signature has already been verified at the boundary.
type PaymentCommands interface {
	OnCheckoutCompleted(ctx context.Context, orderID uuid.UUID, paymentRef string) error
	OnCheckoutExpired(ctx context.Context, orderID uuid.UUID) error
	OnSubscriptionEvent(ctx context.Context, ev SubscriptionEvent) error
}

type paymentUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
}

func NewPaymentUseCase(uow shared.UnitOfWork, notifier Notifier) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:      uow,
		notifier: notifier,
	}
}

type paidAdmission struct {
	userID     uuid.UUID
	eventID    uuid.UUID
	attendance rsvp.AttendanceState
}

// OnCheckoutCompleted marks the order PAID and seats the payer for every
// purchased event. The PENDING to PAID transition happens exactly once
// under the order's row lock, which makes duplicate deliveries no-ops and
// bounds the admission to once per (order, event). Payment confirmation
// re-checks capacity: seats may have filled since the order was created,
// in which case the payer is waitlisted, never rejected, because the
// charge already succeeded.
func (p *paymentUseCaseImpl) OnCheckoutCompleted(ctx context.Context, orderID uuid.UUID, paymentRef string) error {
	var (
		payerID    uuid.UUID
		admissions []paidAdmission
		duplicate  bool
	)

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if snap.Status == order.StatusPaid {
			duplicate = true
			return nil
		}
		if !snap.Status.CanMarkPaid() {
			return ErrOrderNotPayable
		}

		if err := tx.Orders().MarkPaid(ctx, orderID, paymentRef); err != nil {
			return err
		}

		eventIDs := distinctEventIDs(snap.Items)
		if err := tx.Carts().RemoveEventItems(ctx, snap.UserID, eventIDs); err != nil {
			return err
		}

		payerID = snap.UserID
		admissions, err = p.admitPayer(ctx, tx, snap.UserID, eventIDs)
		return err
	})
	if err != nil {
		return err
	}
	if duplicate {
		slog.Info("duplicate checkout-completed delivery ignored", "order_id", orderID.String())
		return nil
	}

	for _, adm := range admissions {
		template := templateRSVPConfirmed
		if adm.attendance == rsvp.AttendanceWaitlisted {
			template = templateRSVPWaitlisted
		}
		p.notifier.Send(ctx, adm.userID, template, map[string]any{"event_id": adm.eventID})
	}
	p.notifier.Send(ctx, payerID, templatePaymentReceipt, map[string]any{"order_id": orderID})

	return nil
}

// admitPayer re-runs the GOING admission decision for each purchased
// event. Events are locked in sorted id order so two multi-event orders
// cannot deadlock against each other.
func (p *paymentUseCaseImpl) admitPayer(ctx context.Context, tx shared.Tx, userID uuid.UUID, eventIDs []uuid.UUID) ([]paidAdmission, error) {
	var admissions []paidAdmission

	for _, eventID := range eventIDs {
		ev, err := tx.Events().FindByID(ctx, eventID)
		if err != nil {
			return nil, err
		}

		if err := tx.Events().AcquireAdmissionLock(ctx, eventID); err != nil {
			return nil, err
		}

		prior, err := findPriorSeating(ctx, tx, userID, eventID)
		if err != nil {
			return nil, err
		}

		confirmedCount, err := tx.RSVPs().CountConfirmedGoing(ctx, eventID)
		if err != nil {
			return nil, err
		}

		attendance := rsvp.DecidePaid(prior.seating, ev.Capacity(), confirmedCount)

		code, err := checkInCodeFor(prior, rsvp.StatusGoing, attendance)
		if err != nil {
			return nil, err
		}

		if _, err := tx.RSVPs().Upsert(ctx, shared.UpsertRSVPParams{
			EventID:     eventID,
			UserID:      userID,
			Status:      rsvp.StatusGoing,
			Attendance:  attendance,
			CheckInCode: code,
		}); err != nil {
			return nil, err
		}

		admissions = append(admissions, paidAdmission{
			userID:     userID,
			eventID:    eventID,
			attendance: attendance,
		})
	}

	return admissions, nil
}

// OnCheckoutExpired cancels the order if it is still pending. RSVP rows
// are never touched: expiry happens before any admission.
func (p *paymentUseCaseImpl) OnCheckoutExpired(ctx context.Context, orderID uuid.UUID) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !snap.Status.CanCancel() {
			slog.Info("checkout-expired delivery for settled order ignored",
				"order_id", orderID.String(), "status", snap.Status.String())
			return nil
		}

		return tx.Orders().MarkCanceled(ctx, orderID)
	})
}

// OnSubscriptionEvent maintains the per-user subscription projection.
// Independent of admission.
func (p *paymentUseCaseImpl) OnSubscriptionEvent(ctx context.Context, ev SubscriptionEvent) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Subscriptions().Upsert(ctx, shared.SubscriptionUpsertParams{
			UserID:             ev.UserID,
			GatewayCustomerRef: ev.GatewayCustomerRef,
			GatewaySubRef:      ev.GatewaySubRef,
			Plan:               ev.Plan,
			Status:             ev.Status,
			CurrentPeriodEnd:   ev.CurrentPeriodEnd,
		})
	})
}

func distinctEventIDs(items []shared.OrderItemSnapshot) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	var ids []uuid.UUID
	for _, it := range items {
		if _, ok := seen[it.EventID]; ok {
			continue
		}
		seen[it.EventID] = struct{}{}
		ids = append(ids, it.EventID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
