package api

import (
	"errors"
	"net/http"

	reqdto "gatherly/internal/handler/dto/request"
	resdto "gatherly/internal/handler/dto/response"
	"gatherly/internal/handler/httperr"
	"gatherly/internal/handler/middleware"
	"gatherly/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckInHandler struct {
	checkInCommands commands.CheckInCommands
}

func NewCheckInHandler(checkInCommands commands.CheckInCommands) *CheckInHandler {
	return &CheckInHandler{checkInCommands: checkInCommands}
}

// @Summary Check in an attendee
// @Description Validate a badge code for a confirmed attendee; idempotent on repeat scans
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.CheckInRequest true "Check-in request"
// @Success 200 {object} resdto.CheckInResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/checkin [post]
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.JSON(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid event ID format")
		return
	}

	var req reqdto.CheckInRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid request format")
		return
	}

	result, err := h.checkInCommands.CheckIn(c.Request.Context(), userID, eventID, req.Code, req.Secret)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Event not found")
		case errors.Is(err, commands.ErrCheckInUnauthorized):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, httperr.CodeUnauthorized, "Not authorized to check in attendees")
		case errors.Is(err, commands.ErrInvalidCheckInCode):
			// Same response for unknown, waitlisted, and withdrawn codes.
			httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Code does not match a confirmed attendee")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckInResult(result))
}
