package commands

import (
	"context"

	"gatherly/internal/infra"
	"gatherly/internal/pkg/clock"
	"gatherly/internal/pkg/errs"
	"gatherly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCheckInUnauthorized = errs.New("not authorized to check in attendees")
	ErrInvalidCheckInCode  = errs.New("check-in code does not match a confirmed attendee")
)

type CheckInResult struct {
	RSVP             *shared.RSVPSnapshot
	AlreadyCheckedIn bool
}

type CheckInCommands interface {
	// CheckIn validates an attendee code. The actor must be the event's
	// organizer or present the event's check-in secret (door staff).
	CheckIn(ctx context.Context, actorID, eventID uuid.UUID, code, providedSecret string) (*CheckInResult, error)
}

type checkInUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCheckInUseCase(uow shared.UnitOfWork, clk clock.Clock) CheckInCommands {
	return &checkInUseCaseImpl{uow: uow, clock: clk}
}

func (c *checkInUseCaseImpl) CheckIn(ctx context.Context, actorID, eventID uuid.UUID, code, providedSecret string) (*CheckInResult, error) {
	var result *CheckInResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ev, err := tx.Events().FindByID(ctx, eventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if !ev.IsOrganizer(actorID) && !ev.VerifyCheckInSecret(providedSecret) {
			return ErrCheckInUnauthorized
		}

		// Only confirmed GOING codes validate; waitlisted and withdrawn
		// codes are indistinguishable from unknown ones on purpose.
		snap, err := tx.RSVPs().FindConfirmedByCode(ctx, eventID, code)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvalidCheckInCode
			}
			return err
		}

		if snap.CheckedInAt != nil {
			result = &CheckInResult{RSVP: snap, AlreadyCheckedIn: true}
			return nil
		}

		now := c.clock.Now()
		if err := tx.RSVPs().SetCheckedIn(ctx, snap.ID, now); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// Lost a same-moment race with another scanner; report the
				// row as already checked in rather than failing the scan.
				refreshed, findErr := tx.RSVPs().FindConfirmedByCode(ctx, eventID, code)
				if findErr != nil {
					return findErr
				}
				result = &CheckInResult{RSVP: refreshed, AlreadyCheckedIn: true}
				return nil
			}
			return err
		}

		checkedIn := *snap
		checkedIn.CheckedInAt = &now
		result = &CheckInResult{RSVP: &checkedIn, AlreadyCheckedIn: false}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
