package rsvp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripforge/tripforge/internal/app/domain"
	"github.com/tripforge/tripforge/internal/app/middleware"
)

type Handler struct {
	*domain.BaseHandler
	service Service
}

func NewHandler(base *domain.BaseHandler, service Service) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *Handler) parseTripID(c *gin.Context) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return uuid.Nil, false
	}
	return tripID, true
}

type respondRequest struct {
	Status string `json:"status" binding:"required"`
}

// Respond handles PUT /api/trips/:tripId/rsvp for the authenticated user.
func (h *Handler) Respond(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	rsvp, err := h.service.Respond(c.Request.Context(), tripID, userID, req.Status)
	if err != nil {
		h.RespondError(c, err, "failed to record rsvp")
		return
	}

	c.JSON(http.StatusOK, rsvp)
}

// ListForTrip handles GET /api/trips/:tripId/rsvps.
func (h *Handler) ListForTrip(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	rsvps, err := h.service.ListForTrip(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to list rsvps")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// ListForUser handles GET /api/users/:userId/rsvps.
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId", "details": err.Error()})
		return
	}

	rsvps, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "failed to list rsvps")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// Attendees handles GET /api/trips/:tripId/attendees, listing the user ids of
// confirmed (YES) members.
func (h *Handler) Attendees(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	ids, err := h.service.AttendeeIDs(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to list attendees")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendeeIds": ids})
}

// Withdraw handles DELETE /api/trips/:tripId/rsvp for the authenticated user.
func (h *Handler) Withdraw(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), tripID, userID); err != nil {
		h.RespondError(c, err, "failed to withdraw rsvp")
		return
	}

	c.Status(http.StatusNoContent)
}
