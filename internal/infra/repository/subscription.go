package repository

import (
	"context"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

type SubscriptionRepository struct {
	db db.DBTX
}

func NewSubscriptionRepository(dbtx db.DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: dbtx}
}

// Upsert maintains the per-user projection of the gateway's subscription
// state. Last write wins; the gateway is the source of truth.
func (r *SubscriptionRepository) Upsert(ctx context.Context, params shared.SubscriptionUpsertParams) error {
	const query = `
		INSERT INTO subscriptions (id, user_id, gateway_customer_ref, gateway_sub_ref, plan, status, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			gateway_customer_ref = EXCLUDED.gateway_customer_ref,
			gateway_sub_ref      = EXCLUDED.gateway_sub_ref,
			plan                 = EXCLUDED.plan,
			status               = EXCLUDED.status,
			current_period_end   = EXCLUDED.current_period_end,
			updated_at           = now()`

	_, err := r.db.Exec(ctx, query, uuid.New(), params.UserID,
		params.GatewayCustomerRef, params.GatewaySubRef, params.Plan, params.Status, params.CurrentPeriodEnd)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert subscription", err)
	}
	return nil
}
