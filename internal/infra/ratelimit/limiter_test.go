//go:build unit

package ratelimit_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"gatherly/internal/infra/ratelimit"
	"gatherly/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounterStore struct {
	counts map[string]int64
	fail   error

	lastExpiry time.Time
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: make(map[string]int64)}
}

func (f *fakeCounterStore) Increment(_ context.Context, limiter string, windowIndex int64, subject string, expiresAt time.Time) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	key := limiter + "|" + subject + "|" + strconv.FormatInt(windowIndex, 10)
	f.counts[key]++
	f.lastExpiry = expiresAt
	return f.counts[key], nil
}

func TestFixedWindowLimiter(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newLimiter := func(limit int64) (*ratelimit.FixedWindowLimiter, *fakeCounterStore, *clock.MockClock) {
		store := newFakeCounterStore()
		clk := clock.NewMockClock(base)
		return ratelimit.NewFixedWindowLimiter("rsvp", limit, time.Minute, store, clk), store, clk
	}

	t.Run("allows up to the limit then denies", func(t *testing.T) {
		limiter, _, _ := newLimiter(3)

		for i := range 3 {
			result := limiter.Allow(context.Background(), "10.0.0.1")
			require.True(t, result.Allowed, "request %d", i)
			assert.Equal(t, int64(3), result.Limit)
			assert.Equal(t, int64(2-i), result.Remaining)
		}

		result := limiter.Allow(context.Background(), "10.0.0.1")
		assert.False(t, result.Allowed)
		assert.Equal(t, int64(0), result.Remaining)
	})

	t.Run("subjects are counted independently", func(t *testing.T) {
		limiter, _, _ := newLimiter(1)

		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)
		assert.False(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)
		assert.True(t, limiter.Allow(context.Background(), "10.0.0.2").Allowed)
	})

	t.Run("window rollover resets the budget", func(t *testing.T) {
		limiter, _, clk := newLimiter(1)

		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)
		assert.False(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)

		clk.Advance(time.Minute)
		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)
	})

	t.Run("reset epoch is the next window boundary", func(t *testing.T) {
		limiter, _, clk := newLimiter(5)

		// 12:00:30 sits inside the 12:00 window; reset is 12:01:00.
		clk.Set(base.Add(30 * time.Second))
		result := limiter.Allow(context.Background(), "10.0.0.1")
		assert.Equal(t, base.Add(time.Minute).Unix(), result.ResetEpoch)
	})

	t.Run("counter rows expire at the window boundary", func(t *testing.T) {
		limiter, store, _ := newLimiter(5)

		limiter.Allow(context.Background(), "10.0.0.1")
		assert.Equal(t, base.Add(time.Minute).Unix(), store.lastExpiry.Unix())
	})

	t.Run("fails open on store errors", func(t *testing.T) {
		limiter, store, _ := newLimiter(1)
		store.fail = errors.New("connection refused")

		result := limiter.Allow(context.Background(), "10.0.0.1")
		assert.True(t, result.Allowed, "a broken counter must not take the endpoint down")
	})
}
