package shared

import (
	"context"
	"time"

	"gatherly/internal/infra"
	"gatherly/internal/pkg/clock"
	"gatherly/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrIdempotencyInProgress = errs.New("request with this idempotency key is already in progress")
	ErrIdempotencyConflict   = errs.New("idempotency key is owned by another identity")
	ErrIdempotencyFailed     = errs.New("idempotency check failed")
)

type IdempotencyOutcome string

const (
	// OutcomeNone: no key supplied, execute normally with no replay record.
	OutcomeNone IdempotencyOutcome = "none"
	// OutcomeClaimed: this request holds the PENDING claim and must call
	// Complete (inside its transaction) or Release on pre-side-effect
	// failure.
	OutcomeClaimed IdempotencyOutcome = "claimed"
	// OutcomeReplay: a COMPLETED record exists, serve its stored response
	// verbatim.
	OutcomeReplay IdempotencyOutcome = "replay"
)

type StoredResponse struct {
	StatusCode int
	Body       []byte
}

type ClaimResult struct {
	Outcome IdempotencyOutcome
	Replay  *StoredResponse
}

// IdempotencyGuard gives side-effecting endpoints at-most-once execution
// keyed by a caller-supplied token scoped to a resolved route. Claims race
// on the storage layer's (route, key) unique constraint: exactly one
// concurrent caller wins the PENDING record, the rest replay or are
// rejected as in-flight.
type IdempotencyGuard struct {
	repo  IdempotencyRepository
	clock clock.Clock
}

func NewIdempotencyGuard(repo IdempotencyRepository, clk clock.Clock) *IdempotencyGuard {
	return &IdempotencyGuard{repo: repo, clock: clk}
}

// Begin claims (route, key) for the calling identity. A uuid.Nil key means
// the caller opted out of idempotency. A crash after a successful claim
// leaves the record PENDING until its TTL passes, after which the key is
// reusable.
func (g *IdempotencyGuard) Begin(ctx context.Context, route string, key uuid.UUID, owner *uuid.UUID, ttl time.Duration) (*ClaimResult, error) {
	if key == uuid.Nil {
		return &ClaimResult{Outcome: OutcomeNone}, nil
	}

	expiresAt := g.clock.Now().Add(ttl)

	err := g.repo.TryInsert(ctx, route, key, owner, expiresAt)
	if err == nil {
		return &ClaimResult{Outcome: OutcomeClaimed}, nil
	}
	if !infra.IsKind(err, infra.KindConflict) {
		return nil, errs.Mark(err, ErrIdempotencyFailed)
	}

	record, err := g.repo.Find(ctx, route, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// The conflicting record expired and was reaped between the
			// insert and the read. Claim again.
			return g.reclaim(ctx, route, key, owner, expiresAt)
		}
		return nil, errs.Mark(err, ErrIdempotencyFailed)
	}

	if g.clock.Now().After(record.ExpiresAt) {
		if err := g.repo.Delete(ctx, route, key); err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrIdempotencyFailed)
		}
		return g.reclaim(ctx, route, key, owner, expiresAt)
	}

	if !sameOwner(record.OwnerID, owner) {
		return nil, ErrIdempotencyConflict
	}

	if record.Status == IdempotencyCompleted {
		code := 200
		if record.StatusCode != nil {
			code = int(*record.StatusCode)
		}
		return &ClaimResult{
			Outcome: OutcomeReplay,
			Replay:  &StoredResponse{StatusCode: code, Body: record.ResponseBody},
		}, nil
	}

	return nil, ErrIdempotencyInProgress
}

// Release drops a claim whose execution failed before any side effect was
// committed, so a retry with the same key is accepted immediately instead
// of waiting for TTL expiry.
func (g *IdempotencyGuard) Release(ctx context.Context, route string, key uuid.UUID) error {
	if key == uuid.Nil {
		return nil
	}
	if err := g.repo.Delete(ctx, route, key); err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrIdempotencyFailed)
	}
	return nil
}

func (g *IdempotencyGuard) reclaim(ctx context.Context, route string, key uuid.UUID, owner *uuid.UUID, expiresAt time.Time) (*ClaimResult, error) {
	if err := g.repo.TryInsert(ctx, route, key, owner, expiresAt); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// Lost the re-claim race to a concurrent duplicate.
			return nil, ErrIdempotencyInProgress
		}
		return nil, errs.Mark(err, ErrIdempotencyFailed)
	}
	return &ClaimResult{Outcome: OutcomeClaimed}, nil
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
