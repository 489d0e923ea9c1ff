package repository

import (
	"context"
	"time"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// TryInsert claims (route, key) as a PENDING record. The table's primary
// key on (route, key) arbitrates concurrent claims; losers get CONFLICT.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, route string, key uuid.UUID, ownerID *uuid.UUID, expiresAt time.Time) error {
	const query = `
		INSERT INTO idempotency_keys (route, key, owner_id, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (route, key) DO NOTHING
		RETURNING key`

	var inserted uuid.UUID
	err := r.db.QueryRow(ctx, query, route, key, ownerID, shared.IdempotencyPending, expiresAt).Scan(&inserted)
	if err != nil {
		if err == pgx.ErrNoRows {
			return infra.WrapRepoErr("idempotency key already claimed", nil, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) Find(ctx context.Context, route string, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	const query = `
		SELECT route, key, owner_id, status, status_code, response_body, expires_at
		FROM idempotency_keys
		WHERE route = $1 AND key = $2`

	var (
		record shared.IdempotencyRecord
		status string
	)
	err := r.db.QueryRow(ctx, query, route, key).Scan(&record.Route, &record.Key,
		&record.OwnerID, &status, &record.StatusCode, &record.ResponseBody, &record.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	record.Status = shared.IdempotencyStatus(status)
	return &record, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, route string, key uuid.UUID, statusCode int, responseBody []byte) error {
	const query = `
		UPDATE idempotency_keys
		SET status = $3, status_code = $4, response_body = $5, updated_at = now()
		WHERE route = $1 AND key = $2`

	tag, err := r.db.Exec(ctx, query, route, key, shared.IdempotencyCompleted, statusCode, responseBody)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key to complete not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, route string, key uuid.UUID) error {
	const query = `DELETE FROM idempotency_keys WHERE route = $1 AND key = $2`

	tag, err := r.db.Exec(ctx, query, route, key)
	if err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key to delete not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM idempotency_keys WHERE expires_at < now()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
