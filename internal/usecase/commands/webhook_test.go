//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"gatherly/internal/domain/event"
	"gatherly/internal/domain/order"
	"gatherly/internal/domain/rsvp"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PaymentTestSuite struct {
	suite.Suite
	store    *memStore
	notifier *recordingNotifier
	payments commands.PaymentCommands
	admitter commands.AdmissionCommands

	organizerID uuid.UUID
	payerID     uuid.UUID
}

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentTestSuite))
}

func (s *PaymentTestSuite) SetupTest() {
	s.store = newMemStore()
	s.notifier = &recordingNotifier{}
	uow := &memUoW{store: s.store}
	s.payments = commands.NewPaymentUseCase(uow, s.notifier)
	s.admitter = commands.NewAdmissionUseCase(uow, &recordingNotifier{})

	s.organizerID = uuid.New()
	s.payerID = uuid.New()
}

func (s *PaymentTestSuite) newEvent(capacity *int32, waitlistEnabled bool) uuid.UUID {
	id := uuid.New()
	s.store.addEvent(event.Reconstruct(id, s.organizerID, capacity, waitlistEnabled, ""))
	return id
}

func (s *PaymentTestSuite) newPendingOrder(eventIDs ...uuid.UUID) uuid.UUID {
	items := make([]order.Item, len(eventIDs))
	for i, eventID := range eventIDs {
		items[i] = order.Item{EventID: eventID, UnitAmountCents: 1500, Quantity: 1}
	}
	o, err := order.New(s.payerID, "usd", items)
	s.Require().NoError(err)
	s.Require().NoError((&memOrderRepo{store: s.store}).Create(context.Background(), o))
	return o.ID()
}

func (s *PaymentTestSuite) completed(orderID uuid.UUID) error {
	return s.payments.OnCheckoutCompleted(context.Background(), orderID, "pay_"+orderID.String()[:8])
}

func (s *PaymentTestSuite) TestCompletedMarksPaidAndAdmitsPayer() {
	eventID := s.newEvent(cap32(10), true)
	orderID := s.newPendingOrder(eventID)

	s.Require().NoError(s.completed(orderID))

	s.Equal(order.StatusPaid, s.store.orders[orderID].Status)
	s.Require().NotNil(s.store.orders[orderID].PaymentRef)

	seat := s.store.findRSVP(s.payerID, eventID)
	s.Require().NotNil(seat)
	s.Equal(rsvp.StatusGoing, seat.Status)
	s.Equal(rsvp.AttendanceConfirmed, seat.Attendance)
	s.NotNil(seat.CheckInCode)

	s.Require().Len(s.store.cartsWiped, 1)
	s.Equal(s.payerID, s.store.cartsWiped[0].userID)

	s.True(s.notifier.sent(s.payerID, "rsvp_confirmed"))
	s.True(s.notifier.sent(s.payerID, "payment_receipt"))
}

func (s *PaymentTestSuite) TestDuplicateDeliveryIsNoop() {
	eventID := s.newEvent(cap32(10), true)
	orderID := s.newPendingOrder(eventID)

	s.Require().NoError(s.completed(orderID))
	refBefore := *s.store.orders[orderID].PaymentRef

	s.Require().NoError(s.completed(orderID))

	s.Equal(refBefore, *s.store.orders[orderID].PaymentRef)
	s.Len(s.store.cartsWiped, 1, "cart is cleared exactly once")

	count := 0
	for _, r := range s.store.rsvps {
		if r.UserID == s.payerID && r.EventID == eventID {
			count++
		}
	}
	s.Equal(1, count, "exactly one admission per (order, event)")
}

func (s *PaymentTestSuite) TestPayerWaitlistedWhenEventFilledMeanwhile() {
	// Seats fill between checkout start and payment confirmation; the payer
	// is waitlisted rather than rejected, even with the waitlist disabled.
	eventID := s.newEvent(cap32(1), false)
	orderID := s.newPendingOrder(eventID)

	_, err := s.admitter.SubmitRSVP(context.Background(), uuid.New(), eventID, rsvp.StatusGoing)
	s.Require().NoError(err)

	s.Require().NoError(s.completed(orderID))

	seat := s.store.findRSVP(s.payerID, eventID)
	s.Require().NotNil(seat)
	s.Equal(rsvp.AttendanceWaitlisted, seat.Attendance)
	s.Equal(order.StatusPaid, s.store.orders[orderID].Status, "payment settles regardless of seating")
	s.True(s.notifier.sent(s.payerID, "rsvp_waitlisted"))
}

func (s *PaymentTestSuite) TestMultiEventOrderAdmitsPerEvent() {
	roomy := s.newEvent(cap32(10), true)
	full := s.newEvent(cap32(0), false)
	orderID := s.newPendingOrder(roomy, full)

	s.Require().NoError(s.completed(orderID))

	s.Equal(rsvp.AttendanceConfirmed, s.store.findRSVP(s.payerID, roomy).Attendance)
	s.Equal(rsvp.AttendanceWaitlisted, s.store.findRSVP(s.payerID, full).Attendance)
}

func (s *PaymentTestSuite) TestCompletedForUnknownOrder() {
	err := s.completed(uuid.New())
	s.Require().ErrorIs(err, commands.ErrOrderNotFound)
}

func (s *PaymentTestSuite) TestExpiredCancelsPendingOrder() {
	eventID := s.newEvent(cap32(10), true)
	orderID := s.newPendingOrder(eventID)

	s.Require().NoError(s.payments.OnCheckoutExpired(context.Background(), orderID))
	s.Equal(order.StatusCanceled, s.store.orders[orderID].Status)
	s.Nil(s.store.findRSVP(s.payerID, eventID), "expiry never touches admission state")
}

func (s *PaymentTestSuite) TestExpiredAfterPaidIsIgnored() {
	// Out-of-order delivery: completion then a stale expiry.
	eventID := s.newEvent(cap32(10), true)
	orderID := s.newPendingOrder(eventID)

	s.Require().NoError(s.completed(orderID))
	s.Require().NoError(s.payments.OnCheckoutExpired(context.Background(), orderID))

	s.Equal(order.StatusPaid, s.store.orders[orderID].Status)
}

func (s *PaymentTestSuite) TestSubscriptionEventUpsertsProjection() {
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	ev := commands.SubscriptionEvent{
		UserID:             s.payerID,
		GatewayCustomerRef: "cus_123",
		GatewaySubRef:      "sub_456",
		Plan:               "organizer-pro",
		Status:             "active",
		CurrentPeriodEnd:   &end,
	}

	s.Require().NoError(s.payments.OnSubscriptionEvent(context.Background(), ev))

	stored := s.store.subscriptions[s.payerID]
	s.Equal(shared.SubscriptionUpsertParams{
		UserID:             s.payerID,
		GatewayCustomerRef: "cus_123",
		GatewaySubRef:      "sub_456",
		Plan:               "organizer-pro",
		Status:             "active",
		CurrentPeriodEnd:   &end,
	}, stored)
}
