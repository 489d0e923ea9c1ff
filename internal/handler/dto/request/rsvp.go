package request

type SubmitRSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going maybe declined"`
}
