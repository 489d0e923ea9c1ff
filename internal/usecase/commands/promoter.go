package commands

import (
	"context"

	"gatherly/internal/domain/event"
	"gatherly/internal/domain/rsvp"
	"gatherly/internal/usecase/shared"
)

const promotionBatchSize = 100

// runWaitlistPromoter confirms queued RSVPs oldest-first until capacity is
// reached or the waitlist drains. Callers must hold the event's admission
// lock; the promoter reads counts that are only stable under it.
func runWaitlistPromoter(ctx context.Context, tx shared.Tx, ev *event.Event) ([]rsvp.WaitlistEntry, error) {
	var promoted []rsvp.WaitlistEntry

	for {
		confirmed, err := tx.RSVPs().CountConfirmedGoing(ctx, ev.ID())
		if err != nil {
			return nil, err
		}

		limit := promotionBatchSize
		if cap := ev.Capacity(); cap != nil {
			free := int(*cap) - confirmed
			if free <= 0 {
				return promoted, nil
			}
			if free < limit {
				limit = free
			}
		}

		waitlisted, err := tx.RSVPs().OldestWaitlisted(ctx, ev.ID(), limit)
		if err != nil {
			return nil, err
		}

		plan := rsvp.PlanPromotions(ev.Capacity(), confirmed, waitlisted)
		if len(plan) == 0 {
			return promoted, nil
		}

		for _, entry := range plan {
			code, err := rsvp.NewCheckInCode()
			if err != nil {
				return nil, err
			}
			if err := tx.RSVPs().PromoteToConfirmed(ctx, entry.RSVPID, code); err != nil {
				return nil, err
			}
			promoted = append(promoted, entry)
		}

		if len(waitlisted) < limit {
			return promoted, nil
		}
	}
}
