package rsvp

import (
	"errors"

	"github.com/google/uuid"
)

var ErrEventFull = errors.New("event is full")

// Seating is the prior admission state of the submitting user, as far as
// the decision needs to know it.
type Seating struct {
	Exists     bool
	Status     Status
	Attendance AttendanceState
}

// Decide resolves the attendance state for a GOING submission. It must run
// with confirmedCount read under the event's serialization section, and the
// count must not include the submitting user's own confirmed seat swap
// (an already-confirmed user keeps the seat unconditionally).
//
// capacity == nil means unlimited.
func Decide(prior Seating, capacity *int32, confirmedCount int, waitlistEnabled bool) (AttendanceState, error) {
	if capacity == nil {
		return AttendanceConfirmed, nil
	}
	if prior.Exists && prior.Status == StatusGoing && prior.Attendance == AttendanceConfirmed {
		return AttendanceConfirmed, nil
	}
	if int32(confirmedCount) < *capacity {
		return AttendanceConfirmed, nil
	}
	if waitlistEnabled {
		return AttendanceWaitlisted, nil
	}
	return "", ErrEventFull
}

// DecidePaid is Decide for payment-triggered admissions. A paid attendee is
// never rejected: the charge already succeeded, so a full event waitlists
// the payer even when the organizer disabled the public waitlist.
func DecidePaid(prior Seating, capacity *int32, confirmedCount int) AttendanceState {
	state, err := Decide(prior, capacity, confirmedCount, true)
	if err != nil {
		// Decide with waitlisting on never fails.
		return AttendanceWaitlisted
	}
	return state
}

// WaitlistEntry is one queued RSVP in FIFO order.
type WaitlistEntry struct {
	RSVPID uuid.UUID
	UserID uuid.UUID
}

// PlanPromotions selects the waitlisted entries to confirm after seats
// freed. waitlisted must already be ordered oldest-first (createdAt, then
// insertion order). With no capacity limit every entry is promoted.
func PlanPromotions(capacity *int32, confirmedCount int, waitlisted []WaitlistEntry) []WaitlistEntry {
	if len(waitlisted) == 0 {
		return nil
	}
	if capacity == nil {
		return waitlisted
	}
	free := int(*capacity) - confirmedCount
	if free <= 0 {
		return nil
	}
	if free > len(waitlisted) {
		free = len(waitlisted)
	}
	return waitlisted[:free]
}
