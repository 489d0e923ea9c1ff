package repository

import (
	"context"

	"gatherly/internal/domain/order"
	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	const orderQuery = `
		INSERT INTO orders (id, user_id, status, total_cents, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`

	if _, err := r.db.Exec(ctx, orderQuery, o.ID(), o.UserID(), o.Status().String(), o.TotalCents(), o.Currency()); err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	const itemQuery = `
		INSERT INTO order_items (id, order_id, event_id, unit_amount_cents, quantity)
		VALUES ($1, $2, $3, $4, $5)`

	for _, it := range o.Items() {
		if _, err := r.db.Exec(ctx, itemQuery, uuid.New(), o.ID(), it.EventID, it.UnitAmountCents, it.Quantity); err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	const query = `
		SELECT id, user_id, status, total_cents, currency, gateway_session_ref, gateway_payment_ref
		FROM orders
		WHERE id = $1
		FOR UPDATE`

	var (
		snap   shared.OrderSnapshot
		status string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.UserID, &status,
		&snap.TotalCents, &snap.Currency, &snap.SessionRef, &snap.PaymentRef)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order for update", err)
	}
	snap.Status = order.Status(status)

	items, err := r.itemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.Items = items
	return &snap, nil
}

func (r *OrderRepository) itemsByOrder(ctx context.Context, orderID uuid.UUID) ([]shared.OrderItemSnapshot, error) {
	const query = `
		SELECT event_id, unit_amount_cents, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY event_id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	defer rows.Close()

	var items []shared.OrderItemSnapshot
	for rows.Next() {
		var it shared.OrderItemSnapshot
		if err := rows.Scan(&it.EventID, &it.UnitAmountCents, &it.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order items", err)
	}
	return items, nil
}

func (r *OrderRepository) SetGatewaySession(ctx context.Context, id uuid.UUID, sessionRef string) error {
	const query = `
		UPDATE orders
		SET gateway_session_ref = $2, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, sessionRef); err != nil {
		return infra.WrapRepoErr("failed to set gateway session ref", err)
	}
	return nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	return r.transition(ctx, id, order.StatusPending, order.StatusPaid, &paymentRef)
}

func (r *OrderRepository) MarkCanceled(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, order.StatusPending, order.StatusCanceled, nil)
}

// transition guards status changes with the expected source state so a
// lost race surfaces as CONFLICT instead of silently rewriting history.
func (r *OrderRepository) transition(ctx context.Context, id uuid.UUID, from, to order.Status, paymentRef *string) error {
	const query = `
		UPDATE orders
		SET status = $3,
		    gateway_payment_ref = COALESCE($4, gateway_payment_ref),
		    updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, query, id, from.String(), to.String(), paymentRef)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not in expected status", nil, infra.KindConflict)
	}
	return nil
}
