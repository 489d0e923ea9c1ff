package readstore

import (
	"context"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
	"gatherly/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdmissionReadStore serves the snapshot endpoint outside any admission
// lock. Counts read here are advisory; the engine recomputes them under
// the lock before deciding anything.
type AdmissionReadStore struct {
	db db.DBTX
}

func NewAdmissionReadStore(dbtx db.DBTX) *AdmissionReadStore {
	return &AdmissionReadStore{db: dbtx}
}

func (r *AdmissionReadStore) EventAdmission(ctx context.Context, eventID uuid.UUID) (*queries.EventAdmissionRow, error) {
	const query = `
		SELECT e.id,
		       e.capacity,
		       e.waitlist_enabled,
		       count(*) FILTER (WHERE v.status = 'going' AND v.attendance_state = 'confirmed'),
		       count(*) FILTER (WHERE v.status = 'going' AND v.attendance_state = 'waitlisted')
		FROM events e
		LEFT JOIN rsvps v ON v.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.id, e.capacity, e.waitlist_enabled`

	var row queries.EventAdmissionRow
	err := r.db.QueryRow(ctx, query, eventID).Scan(&row.EventID, &row.Capacity,
		&row.WaitlistEnabled, &row.ConfirmedCount, &row.WaitlistedCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read event admission", err)
	}
	return &row, nil
}

func (r *AdmissionReadStore) UserRSVP(ctx context.Context, eventID, userID uuid.UUID) (*queries.UserRSVPRow, error) {
	const query = `
		SELECT status, attendance_state
		FROM rsvps
		WHERE event_id = $1 AND user_id = $2`

	var row queries.UserRSVPRow
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&row.Status, &row.Attendance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("rsvp not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read user rsvp", err)
	}
	return &row, nil
}
