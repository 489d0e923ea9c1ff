package rsvp

import "errors"

var ErrInvalidStatus = errors.New("invalid rsvp status")

// Status is the attendee's declared intent.
type Status string

const (
	StatusGoing    Status = "going"
	StatusMaybe    Status = "maybe"
	StatusDeclined Status = "declined"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusGoing, StatusMaybe, StatusDeclined:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

// AttendanceState is the admission outcome for a GOING RSVP. It is
// meaningless for MAYBE and DECLINED rows.
type AttendanceState string

const (
	AttendanceConfirmed  AttendanceState = "confirmed"
	AttendanceWaitlisted AttendanceState = "waitlisted"
)

func (a AttendanceState) String() string { return string(a) }
