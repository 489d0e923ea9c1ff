package repository

import (
	"context"

	"gatherly/internal/domain/event"
	"gatherly/internal/infra"
	"gatherly/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx}
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	const query = `
		SELECT id, organizer_id, capacity, waitlist_enabled, check_in_secret
		FROM events
		WHERE id = $1`

	var (
		eventID         uuid.UUID
		organizerID     uuid.UUID
		capacity        *int32
		waitlistEnabled bool
		checkInSecret   string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&eventID, &organizerID, &capacity, &waitlistEnabled, &checkInSecret)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find event by ID", err)
	}

	return event.Reconstruct(eventID, organizerID, capacity, waitlistEnabled, checkInSecret), nil
}

// AcquireAdmissionLock takes the transaction-scoped advisory lock that
// totally orders capacity-affecting mutations for one event. hashtextextended
// folds the event id into the bigint key space pg_advisory_xact_lock wants.
func (r *EventRepository) AcquireAdmissionLock(ctx context.Context, id uuid.UUID) error {
	const query = `SELECT pg_advisory_xact_lock(hashtextextended('event_admission:' || $1::text, 0))`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to acquire admission lock", err)
	}
	return nil
}
