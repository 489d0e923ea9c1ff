package repository

import (
	"context"
	"time"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
)

// RateCounterRepository backs the fixed-window limiter. Counters are
// ephemeral rows keyed by (limiter, window_index, subject); the first
// increment in a window sets its expiry and a periodic reap drops rows
// whose window has passed.
type RateCounterRepository struct {
	db db.DBTX
}

func NewRateCounterRepository(dbtx db.DBTX) *RateCounterRepository {
	return &RateCounterRepository{db: dbtx}
}

func (r *RateCounterRepository) Increment(ctx context.Context, limiter string, windowIndex int64, subject string, expiresAt time.Time) (int64, error) {
	const query = `
		INSERT INTO rate_counters (limiter, window_index, subject, count, expires_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (limiter, window_index, subject)
		DO UPDATE SET count = rate_counters.count + 1
		RETURNING count`

	var count int64
	err := r.db.QueryRow(ctx, query, limiter, windowIndex, subject, expiresAt).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to increment rate counter", err)
	}
	return count, nil
}

func (r *RateCounterRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM rate_counters WHERE expires_at < now()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired rate counters", err)
	}
	return tag.RowsAffected(), nil
}
