//go:build unit

package shared_test

import (
	"context"
	"testing"
	"time"

	"gatherly/internal/infra"
	"gatherly/internal/pkg/clock"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// fakeIdempotencyRepo mimics the (route, key) unique constraint in memory.
type fakeIdempotencyRepo struct {
	records map[string]*shared.IdempotencyRecord
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: make(map[string]*shared.IdempotencyRecord)}
}

func recordKey(route string, key uuid.UUID) string {
	return route + "|" + key.String()
}

func (f *fakeIdempotencyRepo) TryInsert(_ context.Context, route string, key uuid.UUID, ownerID *uuid.UUID, expiresAt time.Time) error {
	k := recordKey(route, key)
	if _, exists := f.records[k]; exists {
		return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindConflict)
	}
	f.records[k] = &shared.IdempotencyRecord{
		Route:     route,
		Key:       key,
		OwnerID:   ownerID,
		Status:    shared.IdempotencyPending,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (f *fakeIdempotencyRepo) Find(_ context.Context, route string, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, exists := f.records[recordKey(route, key)]
	if !exists {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeIdempotencyRepo) Complete(_ context.Context, route string, key uuid.UUID, statusCode int, responseBody []byte) error {
	rec, exists := f.records[recordKey(route, key)]
	if !exists {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	code := int32(statusCode)
	rec.Status = shared.IdempotencyCompleted
	rec.StatusCode = &code
	rec.ResponseBody = responseBody
	return nil
}

func (f *fakeIdempotencyRepo) Delete(_ context.Context, route string, key uuid.UUID) error {
	k := recordKey(route, key)
	if _, exists := f.records[k]; !exists {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	delete(f.records, k)
	return nil
}

func (f *fakeIdempotencyRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type IdempotencyGuardTestSuite struct {
	suite.Suite
	repo  *fakeIdempotencyRepo
	clock *clock.MockClock
	guard *shared.IdempotencyGuard

	route string
	key   uuid.UUID
	owner uuid.UUID
	ttl   time.Duration
}

func TestIdempotencyGuardSuite(t *testing.T) {
	suite.Run(t, new(IdempotencyGuardTestSuite))
}

func (s *IdempotencyGuardTestSuite) SetupTest() {
	s.repo = newFakeIdempotencyRepo()
	s.clock = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.guard = shared.NewIdempotencyGuard(s.repo, s.clock)

	s.route = "POST /checkout"
	s.key = uuid.New()
	s.owner = uuid.New()
	s.ttl = 24 * time.Hour
}

func (s *IdempotencyGuardTestSuite) begin() (*shared.ClaimResult, error) {
	return s.guard.Begin(context.Background(), s.route, s.key, &s.owner, s.ttl)
}

func (s *IdempotencyGuardTestSuite) TestNilKeyOptsOut() {
	claim, err := s.guard.Begin(context.Background(), s.route, uuid.Nil, &s.owner, s.ttl)
	s.Require().NoError(err)
	s.Equal(shared.OutcomeNone, claim.Outcome)
	s.Empty(s.repo.records)
}

func (s *IdempotencyGuardTestSuite) TestFirstClaimWins() {
	claim, err := s.begin()
	s.Require().NoError(err)
	s.Equal(shared.OutcomeClaimed, claim.Outcome)
}

func (s *IdempotencyGuardTestSuite) TestDuplicateWhilePendingIsInProgress() {
	_, err := s.begin()
	s.Require().NoError(err)

	_, err = s.begin()
	s.Require().ErrorIs(err, shared.ErrIdempotencyInProgress)
}

func (s *IdempotencyGuardTestSuite) TestCompletedClaimReplays() {
	claim, err := s.begin()
	s.Require().NoError(err)
	s.Require().Equal(shared.OutcomeClaimed, claim.Outcome)

	body := []byte(`{"orderId":"abc"}`)
	s.Require().NoError(s.repo.Complete(context.Background(), s.route, s.key, 201, body))

	replay, err := s.begin()
	s.Require().NoError(err)
	s.Equal(shared.OutcomeReplay, replay.Outcome)
	s.Require().NotNil(replay.Replay)
	s.Equal(201, replay.Replay.StatusCode)
	s.Equal(body, replay.Replay.Body)
}

func (s *IdempotencyGuardTestSuite) TestDifferentOwnerIsConflict() {
	_, err := s.begin()
	s.Require().NoError(err)

	intruder := uuid.New()
	_, err = s.guard.Begin(context.Background(), s.route, s.key, &intruder, s.ttl)
	s.Require().ErrorIs(err, shared.ErrIdempotencyConflict)
}

func (s *IdempotencyGuardTestSuite) TestSameKeyDifferentRouteIsIndependent() {
	_, err := s.begin()
	s.Require().NoError(err)

	claim, err := s.guard.Begin(context.Background(), "POST /events/:id/rsvp", s.key, &s.owner, s.ttl)
	s.Require().NoError(err)
	s.Equal(shared.OutcomeClaimed, claim.Outcome)
}

func (s *IdempotencyGuardTestSuite) TestExpiredClaimIsReclaimed() {
	_, err := s.begin()
	s.Require().NoError(err)

	s.clock.Advance(s.ttl + time.Minute)

	claim, err := s.begin()
	s.Require().NoError(err)
	s.Equal(shared.OutcomeClaimed, claim.Outcome)
}

func (s *IdempotencyGuardTestSuite) TestExpiredCompletedRecordDoesNotReplay() {
	_, err := s.begin()
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Complete(context.Background(), s.route, s.key, 201, []byte(`{}`)))

	s.clock.Advance(s.ttl + time.Minute)

	claim, err := s.begin()
	s.Require().NoError(err)
	s.Equal(shared.OutcomeClaimed, claim.Outcome, "an expired record must be reclaimed, not replayed")
}

func (s *IdempotencyGuardTestSuite) TestReleaseFreesTheKey() {
	_, err := s.begin()
	s.Require().NoError(err)

	s.Require().NoError(s.guard.Release(context.Background(), s.route, s.key))

	claim, err := s.begin()
	s.Require().NoError(err)
	s.Equal(shared.OutcomeClaimed, claim.Outcome)
}

func (s *IdempotencyGuardTestSuite) TestReleaseOfUnknownKeyIsNoop() {
	s.Require().NoError(s.guard.Release(context.Background(), s.route, uuid.New()))
	s.Require().NoError(s.guard.Release(context.Background(), s.route, uuid.Nil))
}
