package polls

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

type createPollRequest struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required"`
}

// Create handles POST /api/trips/:tripId/polls.
func (h *Handler) Create(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	poll, err := h.service.CreatePoll(c.Request.Context(), tripID, req.Question, req.Options)
	if err != nil {
		h.RespondError(c, err, "failed to create poll")
		return
	}

	c.JSON(http.StatusCreated, poll)
}

// ListForTrip handles GET /api/trips/:tripId/polls.
func (h *Handler) ListForTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	polls, err := h.service.ListForTrip(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to list polls")
		return
	}

	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

type voteRequest struct {
	Option string `json:"option" binding:"required"`
}

// Vote handles PUT /api/polls/:pollId/vote for the authenticated user.
func (h *Handler) Vote(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pollId", "details": err.Error()})
		return
	}

	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	vote, err := h.service.Vote(c.Request.Context(), pollID, userID, req.Option)
	if err != nil {
		h.RespondError(c, err, "failed to record vote")
		return
	}

	c.JSON(http.StatusOK, vote)
}

// Delete handles DELETE /api/polls/:pollId.
func (h *Handler) Delete(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pollId", "details": err.Error()})
		return
	}

	if err := h.service.DeletePoll(c.Request.Context(), pollID); err != nil {
		h.RespondError(c, err, "failed to delete poll")
		return
	}

	c.Status(http.StatusNoContent)
}
