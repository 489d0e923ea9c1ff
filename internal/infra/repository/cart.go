package repository

import (
	"context"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"

	"github.com/google/uuid"
)

type CartRepository struct {
	db db.DBTX
}

func NewCartRepository(dbtx db.DBTX) *CartRepository {
	return &CartRepository{db: dbtx}
}

// RemoveEventItems clears paid-for entries from the user's cart. Missing
// rows are fine; the cart may have been edited since checkout started.
func (r *CartRepository) RemoveEventItems(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) error {
	if len(eventIDs) == 0 {
		return nil
	}

	const query = `DELETE FROM cart_items WHERE user_id = $1 AND event_id = ANY($2)`

	if _, err := r.db.Exec(ctx, query, userID, eventIDs); err != nil {
		return infra.WrapRepoErr("failed to remove cart items", err)
	}
	return nil
}
