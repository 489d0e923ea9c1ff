package api

import (
	"errors"
	"net/http"

	reqdto "gatherly/internal/handler/dto/request"
	resdto "gatherly/internal/handler/dto/response"
	"gatherly/internal/handler/httperr"
	"gatherly/internal/handler/middleware"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{checkoutCommands: checkoutCommands}
}

// @Summary Begin checkout
// @Description Create a pending order and open a payment gateway session
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /checkout [post]
func (h *CheckoutHandler) BeginCheckout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.JSON(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error")
		return
	}

	idempotencyKey, err := idempotencyKeyHeader(c)
	if err != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid idempotency key format")
		return
	}

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid request format")
		return
	}

	items := make([]commands.CheckoutItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = commands.CheckoutItem{
			EventID:         it.EventID,
			UnitAmountCents: it.UnitAmountCents,
			Quantity:        it.Quantity,
		}
	}

	result, err := h.checkoutCommands.BeginCheckout(c.Request.Context(), userID, req.Currency, items, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidOrder):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeValidation, "Order validation failed")
		case errors.Is(err, shared.ErrIdempotencyInProgress):
			httperr.AbortWithError(c, http.StatusConflict, err, httperr.CodeAlreadyInProgress, "Request with this idempotency key is already in progress")
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, httperr.CodeConflict, "Idempotency key was used by a different identity")
		case errors.Is(err, commands.ErrGatewayFailed):
			// Retrying with the same key is safe: no order was created.
			httperr.AbortWithError(c, http.StatusBadGateway, err, httperr.CodeExternalDependency, "Payment gateway is unavailable, retry with the same idempotency key")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}

func idempotencyKeyHeader(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(keyStr)
}
