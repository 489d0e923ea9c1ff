package request

type CheckInRequest struct {
	Code string `json:"code" binding:"required,max=64"`
	// Secret lets door staff without organizer accounts check attendees
	// in; organizers may omit it.
	Secret string `json:"secret" binding:"omitempty,max=128"`
}
