package event

import (
	"crypto/subtle"

	"github.com/google/uuid"
)

// Event carries the admission-relevant slice of an event. Title, venue and
// the rest of the organizer-facing metadata live outside this core.
type Event struct {
	id              uuid.UUID
	organizerID     uuid.UUID
	capacity        *int32
	waitlistEnabled bool
	checkInSecret   string
}

func Reconstruct(id, organizerID uuid.UUID, capacity *int32, waitlistEnabled bool, checkInSecret string) *Event {
	return &Event{
		id:              id,
		organizerID:     organizerID,
		capacity:        capacity,
		waitlistEnabled: waitlistEnabled,
		checkInSecret:   checkInSecret,
	}
}

func (e *Event) ID() uuid.UUID          { return e.id }
func (e *Event) OrganizerID() uuid.UUID { return e.organizerID }
func (e *Event) WaitlistEnabled() bool  { return e.waitlistEnabled }

// Capacity returns the seat limit, or nil when attendance is unlimited.
func (e *Event) Capacity() *int32 { return e.capacity }

func (e *Event) IsOrganizer(userID uuid.UUID) bool {
	return e.organizerID == userID
}

// VerifyCheckInSecret compares in constant time so the comparison itself
// leaks nothing about the stored secret.
func (e *Event) VerifyCheckInSecret(candidate string) bool {
	if e.checkInSecret == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(e.checkInSecret), []byte(candidate)) == 1
}

// SpotsLeft returns the number of free seats given the current confirmed
// count, or nil when the event has no capacity limit.
func (e *Event) SpotsLeft(confirmedCount int) *int32 {
	if e.capacity == nil {
		return nil
	}
	left := *e.capacity - int32(confirmedCount)
	if left < 0 {
		left = 0
	}
	return &left
}

func (e *Event) IsFull(confirmedCount int) bool {
	return e.capacity != nil && int32(confirmedCount) >= *e.capacity
}
