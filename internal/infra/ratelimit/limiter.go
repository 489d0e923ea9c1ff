package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"gatherly/internal/pkg/clock"
)

// CounterStore is the persistence behind a limiter. Increments may race;
// the limiter is an abuse dampener, not exact accounting, so an occasional
// over-limit request is acceptable.
type CounterStore interface {
	Increment(ctx context.Context, limiter string, windowIndex int64, subject string, expiresAt time.Time) (int64, error)
}

type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	ResetEpoch int64
}

// FixedWindowLimiter counts hits per (limiter, floor(now/window), subject).
// Windows reset exactly at fixed time-slice boundaries rather than sliding.
type FixedWindowLimiter struct {
	name   string
	limit  int64
	window time.Duration
	store  CounterStore
	clock  clock.Clock
}

func NewFixedWindowLimiter(name string, limit int64, window time.Duration, store CounterStore, clk clock.Clock) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		name:   name,
		limit:  limit,
		window: window,
		store:  store,
		clock:  clk,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, subject string) Result {
	now := l.clock.Now()
	windowSec := int64(l.window / time.Second)
	windowIndex := now.Unix() / windowSec
	resetEpoch := (windowIndex + 1) * windowSec
	expiresAt := time.Unix(resetEpoch, 0)

	count, err := l.store.Increment(ctx, l.name, windowIndex, subject, expiresAt)
	if err != nil {
		// Failing open: losing a few counter writes must not take the
		// guarded endpoint down with it.
		slog.Warn("rate counter increment failed", "limiter", l.name, "error", err.Error())
		return Result{Allowed: true, Limit: l.limit, Remaining: 0, ResetEpoch: resetEpoch}
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:    count <= l.limit,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetEpoch: resetEpoch,
	}
}
