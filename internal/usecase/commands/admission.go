package commands

import (
	"context"
	"errors"

	"gatherly/internal/domain/event"
	"gatherly/internal/domain/rsvp"
	"gatherly/internal/infra"
	"gatherly/internal/pkg/errs"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound     = errs.New("event not found")
	ErrSelfRSVPForbidden = errs.New("organizers cannot rsvp to their own event")
	ErrEventFull         = errs.New("event is at capacity")
	ErrInvalidRSVPStatus = errs.New("invalid rsvp status")
)

const (
	templateRSVPConfirmed  = "rsvp_confirmed"
	templateRSVPWaitlisted = "rsvp_waitlisted"
	templateRSVPPromoted   = "rsvp_promoted"
)

type AdmissionResult struct {
	Status          rsvp.Status
	Attendance      *rsvp.AttendanceState
	ConfirmedCount  int
	WaitlistedCount int
	IsFull          bool
	SpotsLeft       *int32
}

type AdmissionCommands interface {
	SubmitRSVP(ctx context.Context, userID, eventID uuid.UUID, desired rsvp.Status) (*AdmissionResult, error)
}

type admissionUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
}

func NewAdmissionUseCase(uow shared.UnitOfWork, notifier Notifier) AdmissionCommands {
	return &admissionUseCaseImpl{
		uow:      uow,
		notifier: notifier,
	}
}

// SubmitRSVP runs the full read-count-decide-write-promote sequence under
// the event's admission lock, so concurrent submissions for the same event
// are totally ordered and a race loser observes the winner's committed
// state before deciding. Different events never block each other.
func (a *admissionUseCaseImpl) SubmitRSVP(ctx context.Context, userID, eventID uuid.UUID, desired rsvp.Status) (*AdmissionResult, error) {
	if _, err := rsvp.ParseStatus(desired.String()); err != nil {
		return nil, ErrInvalidRSVPStatus
	}

	var (
		result   *AdmissionResult
		promoted []rsvp.WaitlistEntry
	)

	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ev, err := tx.Events().FindByID(ctx, eventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if ev.IsOrganizer(userID) {
			return ErrSelfRSVPForbidden
		}

		if err := tx.Events().AcquireAdmissionLock(ctx, eventID); err != nil {
			return err
		}

		prior, err := findPriorSeating(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}

		attendance := prior.attendance
		if desired == rsvp.StatusGoing {
			confirmedCount, err := tx.RSVPs().CountConfirmedGoing(ctx, eventID)
			if err != nil {
				return err
			}
			attendance, err = rsvp.Decide(prior.seating, ev.Capacity(), confirmedCount, ev.WaitlistEnabled())
			if err != nil {
				if errors.Is(err, rsvp.ErrEventFull) {
					return ErrEventFull
				}
				return err
			}
		}

		code, err := checkInCodeFor(prior, desired, attendance)
		if err != nil {
			return err
		}

		if _, err := tx.RSVPs().Upsert(ctx, shared.UpsertRSVPParams{
			EventID:     eventID,
			UserID:      userID,
			Status:      desired,
			Attendance:  attendance,
			CheckInCode: code,
		}); err != nil {
			return err
		}

		// A non-GOING submission may have freed a seat; a GOING one never
		// does, but the pass is cheap and keeps the invariant in one place.
		promoted, err = runWaitlistPromoter(ctx, tx, ev)
		if err != nil {
			return err
		}

		result, err = snapshotAdmission(ctx, tx, ev, desired, attendance)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.notifySubmission(ctx, userID, eventID, desired, result)
	a.notifyPromotions(ctx, eventID, promoted)

	return result, nil
}

type priorSeating struct {
	seating    rsvp.Seating
	attendance rsvp.AttendanceState
	code       *string
}

func findPriorSeating(ctx context.Context, tx shared.Tx, userID, eventID uuid.UUID) (priorSeating, error) {
	prior := priorSeating{attendance: rsvp.AttendanceConfirmed}

	snap, err := tx.RSVPs().FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return prior, nil
		}
		return prior, err
	}

	prior.seating = rsvp.Seating{Exists: true, Status: snap.Status, Attendance: snap.Attendance}
	prior.attendance = snap.Attendance
	prior.code = snap.CheckInCode
	return prior, nil
}

// checkInCodeFor issues the badge code exactly once, at the first GOING
// confirmation. The upsert keeps any previously issued code regardless,
// so issued badges survive status churn.
func checkInCodeFor(prior priorSeating, status rsvp.Status, attendance rsvp.AttendanceState) (*string, error) {
	if prior.code != nil {
		return prior.code, nil
	}
	if status != rsvp.StatusGoing || attendance != rsvp.AttendanceConfirmed {
		return nil, nil
	}
	code, err := rsvp.NewCheckInCode()
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate check-in code")
	}
	return &code, nil
}

func snapshotAdmission(ctx context.Context, tx shared.Tx, ev *event.Event, status rsvp.Status, attendance rsvp.AttendanceState) (*AdmissionResult, error) {
	confirmed, err := tx.RSVPs().CountConfirmedGoing(ctx, ev.ID())
	if err != nil {
		return nil, err
	}
	waitlisted, err := tx.RSVPs().CountWaitlisted(ctx, ev.ID())
	if err != nil {
		return nil, err
	}

	result := &AdmissionResult{
		Status:          status,
		ConfirmedCount:  confirmed,
		WaitlistedCount: waitlisted,
		IsFull:          ev.IsFull(confirmed),
		SpotsLeft:       ev.SpotsLeft(confirmed),
	}
	if status == rsvp.StatusGoing {
		a := attendance
		result.Attendance = &a
	}
	return result, nil
}

func (a *admissionUseCaseImpl) notifySubmission(ctx context.Context, userID, eventID uuid.UUID, status rsvp.Status, result *AdmissionResult) {
	if status != rsvp.StatusGoing || result.Attendance == nil {
		return
	}
	template := templateRSVPConfirmed
	if *result.Attendance == rsvp.AttendanceWaitlisted {
		template = templateRSVPWaitlisted
	}
	a.notifier.Send(ctx, userID, template, map[string]any{"event_id": eventID})
}

func (a *admissionUseCaseImpl) notifyPromotions(ctx context.Context, eventID uuid.UUID, promoted []rsvp.WaitlistEntry) {
	for _, p := range promoted {
		a.notifier.Send(ctx, p.UserID, templateRSVPPromoted, map[string]any{"event_id": eventID})
	}
}
