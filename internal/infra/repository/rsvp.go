package repository

import (
	"context"
	"time"

	"gatherly/internal/domain/rsvp"
	"gatherly/internal/infra"
	"gatherly/internal/infra/db"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RSVPRepository struct {
	db db.DBTX
}

func NewRSVPRepository(dbtx db.DBTX) *RSVPRepository {
	return &RSVPRepository{db: dbtx}
}

const rsvpColumns = `id, event_id, user_id, status, attendance_state, check_in_code, checked_in_at, created_at`

func (r *RSVPRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*shared.RSVPSnapshot, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE user_id = $1 AND event_id = $2`

	snap, err := scanRSVP(r.db.QueryRow(ctx, query, userID, eventID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("rsvp not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rsvp by user and event", err)
	}
	return snap, nil
}

// FindConfirmedByCode matches check-in codes against confirmed GOING rows
// only. Waitlisted and withdrawn codes never validate.
func (r *RSVPRepository) FindConfirmedByCode(ctx context.Context, eventID uuid.UUID, code string) (*shared.RSVPSnapshot, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1
		  AND check_in_code = $2
		  AND status = $3
		  AND attendance_state = $4`

	snap, err := scanRSVP(r.db.QueryRow(ctx, query, eventID, code, rsvp.StatusGoing.String(), rsvp.AttendanceConfirmed.String()))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("no confirmed rsvp for code", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rsvp by check-in code", err)
	}
	return snap, nil
}

// Upsert creates or rewrites the single (user, event) row. An
// already-issued check_in_code survives updates so issued codes keep
// validating. createdAt anchors the waitlist FIFO position: it survives
// same-status rewrites but is refreshed when a withdrawn attendee comes
// back to GOING, so returners queue behind everyone who stayed.
func (r *RSVPRepository) Upsert(ctx context.Context, params shared.UpsertRSVPParams) (*shared.RSVPSnapshot, error) {
	query := `
		INSERT INTO rsvps (id, event_id, user_id, status, attendance_state, check_in_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (user_id, event_id) DO UPDATE SET
			status           = EXCLUDED.status,
			attendance_state = EXCLUDED.attendance_state,
			check_in_code    = COALESCE(rsvps.check_in_code, EXCLUDED.check_in_code),
			created_at       = CASE
				WHEN rsvps.status <> EXCLUDED.status AND EXCLUDED.status = 'going'
				THEN now()
				ELSE rsvps.created_at
			END,
			updated_at       = now()
		RETURNING ` + rsvpColumns

	snap, err := scanRSVP(r.db.QueryRow(ctx, query,
		uuid.New(), params.EventID, params.UserID,
		params.Status.String(), params.Attendance.String(), params.CheckInCode,
	))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert rsvp", err)
	}
	return snap, nil
}

func (r *RSVPRepository) CountConfirmedGoing(ctx context.Context, eventID uuid.UUID) (int, error) {
	return r.countByAttendance(ctx, eventID, rsvp.AttendanceConfirmed)
}

func (r *RSVPRepository) CountWaitlisted(ctx context.Context, eventID uuid.UUID) (int, error) {
	return r.countByAttendance(ctx, eventID, rsvp.AttendanceWaitlisted)
}

func (r *RSVPRepository) countByAttendance(ctx context.Context, eventID uuid.UUID, state rsvp.AttendanceState) (int, error) {
	const query = `
		SELECT count(*)
		FROM rsvps
		WHERE event_id = $1 AND status = $2 AND attendance_state = $3`

	var count int
	err := r.db.QueryRow(ctx, query, eventID, rsvp.StatusGoing.String(), state.String()).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count rsvps", err)
	}
	return count, nil
}

func (r *RSVPRepository) OldestWaitlisted(ctx context.Context, eventID uuid.UUID, limit int) ([]rsvp.WaitlistEntry, error) {
	const query = `
		SELECT id, user_id
		FROM rsvps
		WHERE event_id = $1 AND status = $2 AND attendance_state = $3
		ORDER BY created_at, id
		LIMIT $4`

	rows, err := r.db.Query(ctx, query, eventID, rsvp.StatusGoing.String(), rsvp.AttendanceWaitlisted.String(), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlisted rsvps", err)
	}
	defer rows.Close()

	var entries []rsvp.WaitlistEntry
	for rows.Next() {
		var e rsvp.WaitlistEntry
		if err := rows.Scan(&e.RSVPID, &e.UserID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan waitlist entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read waitlist entries", err)
	}
	return entries, nil
}

func (r *RSVPRepository) PromoteToConfirmed(ctx context.Context, rsvpID uuid.UUID, code string) error {
	const query = `
		UPDATE rsvps
		SET attendance_state = $2,
		    check_in_code    = COALESCE(check_in_code, $3),
		    updated_at       = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, rsvpID, rsvp.AttendanceConfirmed.String(), code)
	if err != nil {
		return infra.WrapRepoErr("failed to promote rsvp", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rsvp to promote not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RSVPRepository) SetCheckedIn(ctx context.Context, rsvpID uuid.UUID, at time.Time) error {
	const query = `
		UPDATE rsvps
		SET checked_in_at = $2, updated_at = now()
		WHERE id = $1 AND checked_in_at IS NULL`

	tag, err := r.db.Exec(ctx, query, rsvpID, at)
	if err != nil {
		return infra.WrapRepoErr("failed to set checked-in time", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rsvp already checked in or missing", nil, infra.KindConflict)
	}
	return nil
}

func scanRSVP(row pgx.Row) (*shared.RSVPSnapshot, error) {
	var (
		snap       shared.RSVPSnapshot
		status     string
		attendance string
	)
	err := row.Scan(&snap.ID, &snap.EventID, &snap.UserID, &status, &attendance,
		&snap.CheckInCode, &snap.CheckedInAt, &snap.CreatedAt)
	if err != nil {
		return nil, err
	}
	snap.Status = rsvp.Status(status)
	snap.Attendance = rsvp.AttendanceState(attendance)
	return &snap, nil
}
