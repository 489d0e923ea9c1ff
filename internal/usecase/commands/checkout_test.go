//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatherly/internal/domain/order"
	"gatherly/internal/pkg/clock"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CheckoutTestSuite struct {
	suite.Suite
	store    *memStore
	gateway  *stubGateway
	checkout commands.CheckoutCommands

	userID uuid.UUID
	items  []commands.CheckoutItem
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutTestSuite))
}

func (s *CheckoutTestSuite) SetupTest() {
	s.store = newMemStore()
	s.gateway = &stubGateway{}

	uow := &memUoW{store: s.store}
	guard := shared.NewIdempotencyGuard(
		&memIdempotencyRepo{store: s.store},
		clock.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
	)
	s.checkout = commands.NewCheckoutUseCase(uow, guard, s.gateway)

	s.userID = uuid.New()
	s.items = []commands.CheckoutItem{
		{EventID: uuid.New(), UnitAmountCents: 2500, Quantity: 2},
	}
}

func (s *CheckoutTestSuite) begin(key uuid.UUID) (*commands.BeginCheckoutResult, error) {
	return s.checkout.BeginCheckout(context.Background(), s.userID, "usd", s.items, key)
}

func (s *CheckoutTestSuite) TestCreatesPendingOrderWithSession() {
	result, err := s.begin(uuid.New())
	s.Require().NoError(err)
	s.False(result.Replayed)
	s.Equal(int64(5000), result.Response.TotalCents)
	s.NotEmpty(result.Response.SessionRef)
	s.NotEmpty(result.Response.RedirectURL)

	stored := s.store.orders[result.Response.OrderID]
	s.Require().NotNil(stored)
	s.Equal(order.StatusPending, stored.Status)
	s.Require().NotNil(stored.SessionRef)
	s.Equal(result.Response.SessionRef, *stored.SessionRef)
}

func (s *CheckoutTestSuite) TestRetryWithSameKeyReplaysWithoutNewOrder() {
	key := uuid.New()

	first, err := s.begin(key)
	s.Require().NoError(err)

	second, err := s.begin(key)
	s.Require().NoError(err)
	s.True(second.Replayed)
	s.Equal(first.Response, second.Response, "replay must be byte-equivalent")

	s.Len(s.store.orders, 1, "a retry must not create a second order")
	s.Equal(1, s.gateway.calls, "a retry must not open a second gateway session")
}

func (s *CheckoutTestSuite) TestGatewayFailureReleasesClaim() {
	key := uuid.New()

	s.gateway.fail = errors.New("gateway timeout")
	_, err := s.begin(key)
	s.Require().ErrorIs(err, commands.ErrGatewayFailed)
	s.Empty(s.store.orders, "no order may survive a failed session")

	// Immediate retry with the same key succeeds because the claim was
	// released, not left to expire.
	s.gateway.fail = nil
	result, err := s.begin(key)
	s.Require().NoError(err)
	s.False(result.Replayed)
	s.Len(s.store.orders, 1)
}

func (s *CheckoutTestSuite) TestWithoutKeyEveryCallCreatesAnOrder() {
	for range 2 {
		_, err := s.begin(uuid.Nil)
		s.Require().NoError(err)
	}
	s.Len(s.store.orders, 2)
}

func (s *CheckoutTestSuite) TestInvalidOrderRejected() {
	s.items = nil
	_, err := s.begin(uuid.New())
	s.Require().ErrorIs(err, commands.ErrInvalidOrder)
	s.Equal(0, s.gateway.calls, "validation failures must not reach the gateway")
}

func (s *CheckoutTestSuite) TestConcurrentDuplicateIsInProgress() {
	key := uuid.New()
	_, err := s.begin(key)
	s.Require().NoError(err)

	// Simulate the claim still being PENDING (first request crashed after
	// claiming but before completing).
	rec := s.store.idempotency["POST /checkout|"+key.String()]
	s.Require().NotNil(rec)
	rec.Status = shared.IdempotencyPending
	rec.StatusCode = nil
	rec.ResponseBody = nil

	_, err = s.begin(key)
	s.Require().ErrorIs(err, shared.ErrIdempotencyInProgress)
}

func (s *CheckoutTestSuite) TestKeyOwnedByOtherUserIsConflict() {
	key := uuid.New()
	_, err := s.begin(key)
	s.Require().NoError(err)

	s.userID = uuid.New()
	_, err = s.begin(key)
	s.Require().ErrorIs(err, shared.ErrIdempotencyConflict)
}
