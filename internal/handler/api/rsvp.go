package api

import (
	"errors"
	"net/http"

	"gatherly/internal/domain/rsvp"
	reqdto "gatherly/internal/handler/dto/request"
	resdto "gatherly/internal/handler/dto/response"
	"gatherly/internal/handler/httperr"
	"gatherly/internal/handler/middleware"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RSVPHandler struct {
	admissionCommands commands.AdmissionCommands
	admissionQueries  queries.AdmissionQueries
}

func NewRSVPHandler(admissionCommands commands.AdmissionCommands, admissionQueries queries.AdmissionQueries) *RSVPHandler {
	return &RSVPHandler{
		admissionCommands: admissionCommands,
		admissionQueries:  admissionQueries,
	}
}

// @Summary Submit RSVP
// @Description Submit or change an RSVP for an event; seats are confirmed or waitlisted against capacity
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.SubmitRSVPRequest true "RSVP request"
// @Success 200 {object} resdto.AdmissionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /events/{id}/rsvp [post]
func (h *RSVPHandler) SubmitRSVP(c *gin.Context) {
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

	var req reqdto.SubmitRSVPRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid request format")
		return
	}

	status, err := rsvp.ParseStatus(req.Status)
	if err != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid RSVP status")
		return
	}

	result, err := h.admissionCommands.SubmitRSVP(c.Request.Context(), userID, eventID, status)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Event not found")
		case errors.Is(err, commands.ErrSelfRSVPForbidden):
			httperr.AbortWithError(c, http.StatusForbidden, err, httperr.CodeValidation, "Organizers cannot RSVP to their own event")
		case errors.Is(err, commands.ErrEventFull):
			httperr.AbortWithError(c, http.StatusConflict, err, httperr.CodeEventFull, "Event is at capacity")
		case errors.Is(err, commands.ErrInvalidRSVPStatus):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeValidation, "Invalid RSVP status")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAdmissionResult(result))
}

// @Summary Get admission snapshot
// @Description Current confirmed/waitlisted counts for an event plus the caller's own status
// @Tags rsvps
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} queries.AdmissionView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/admission [get]
func (h *RSVPHandler) GetAdmissionSnapshot(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.JSON(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid event ID format")
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	view, err := h.admissionQueries.GetSnapshot(c.Request.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, queries.ErrEventNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Event not found")
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, view)
}
