package queries

import (
	"context"

	"gatherly/internal/infra"
	"gatherly/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrEventNotFound = errs.New("event not found")

// AdmissionView is the public capacity snapshot for an event, plus the
// caller's own standing when an identity is supplied. Seat-holder
// identities are never exposed through it.
type AdmissionView struct {
	EventID         uuid.UUID `json:"eventId"`
	ConfirmedCount  int       `json:"confirmedCount"`
	WaitlistedCount int       `json:"waitlistedCount"`
	Capacity        *int32    `json:"capacity,omitempty"`
	SpotsLeft       *int32    `json:"spotsLeft,omitempty"`
	IsFull          bool      `json:"isFull"`
	MyStatus        *string   `json:"myStatus,omitempty"`
	MyAttendance    *string   `json:"myAttendance,omitempty"`
}

type EventAdmissionRow struct {
	EventID         uuid.UUID
	Capacity        *int32
	WaitlistEnabled bool
	ConfirmedCount  int
	WaitlistedCount int
}

type UserRSVPRow struct {
	Status     string
	Attendance string
}

type AdmissionReadStore interface {
	EventAdmission(ctx context.Context, eventID uuid.UUID) (*EventAdmissionRow, error)
	UserRSVP(ctx context.Context, eventID, userID uuid.UUID) (*UserRSVPRow, error)
}

type AdmissionQueries interface {
	GetSnapshot(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID) (*AdmissionView, error)
}

type admissionQueriesImpl struct {
	store AdmissionReadStore
}

func NewAdmissionQueries(store AdmissionReadStore) AdmissionQueries {
	return &admissionQueriesImpl{store: store}
}

func (q *admissionQueriesImpl) GetSnapshot(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID) (*AdmissionView, error) {
	row, err := q.store.EventAdmission(ctx, eventID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	view := &AdmissionView{
		EventID:         row.EventID,
		ConfirmedCount:  row.ConfirmedCount,
		WaitlistedCount: row.WaitlistedCount,
		Capacity:        row.Capacity,
	}
	if row.Capacity != nil {
		left := *row.Capacity - int32(row.ConfirmedCount)
		if left < 0 {
			left = 0
		}
		view.SpotsLeft = &left
		view.IsFull = left == 0
	}

	if userID != nil {
		mine, err := q.store.UserRSVP(ctx, eventID, *userID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return nil, err
		}
		if mine != nil {
			view.MyStatus = &mine.Status
			if mine.Status == "going" {
				view.MyAttendance = &mine.Attendance
			}
		}
	}

	return view, nil
}
