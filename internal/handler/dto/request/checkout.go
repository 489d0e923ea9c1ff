package request

import "github.com/google/uuid"

type CheckoutItemRequest struct {
	EventID         uuid.UUID `json:"eventId" binding:"required"`
	UnitAmountCents int64     `json:"unitAmountCents" binding:"min=0"`
	Quantity        int32     `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	Currency string                `json:"currency" binding:"required,len=3"`
	Items    []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}
