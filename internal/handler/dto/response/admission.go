package response

import (
	"time"

	"gatherly/internal/usecase/commands"
)

type AdmissionResponse struct {
	Status          string  `json:"status"`
	AttendanceState *string `json:"attendanceState,omitempty"`
	ConfirmedCount  int     `json:"confirmedCount"`
	WaitlistedCount int     `json:"waitlistedCount"`
	IsFull          bool    `json:"isFull"`
	SpotsLeft       *int32  `json:"spotsLeft,omitempty"`
}

func FromAdmissionResult(result *commands.AdmissionResult) *AdmissionResponse {
	resp := &AdmissionResponse{
		Status:          result.Status.String(),
		ConfirmedCount:  result.ConfirmedCount,
		WaitlistedCount: result.WaitlistedCount,
		IsFull:          result.IsFull,
		SpotsLeft:       result.SpotsLeft,
	}
	if result.Attendance != nil {
		s := result.Attendance.String()
		resp.AttendanceState = &s
	}
	return resp
}

type CheckInResponse struct {
	AlreadyCheckedIn bool       `json:"alreadyCheckedIn"`
	CheckedInAt      *time.Time `json:"checkedInAt,omitempty"`
	AttendeeUserID   string     `json:"attendeeUserId"`
}

func FromCheckInResult(result *commands.CheckInResult) *CheckInResponse {
	return &CheckInResponse{
		AlreadyCheckedIn: result.AlreadyCheckedIn,
		CheckedInAt:      result.RSVP.CheckedInAt,
		AttendeeUserID:   result.RSVP.UserID.String(),
	}
}
