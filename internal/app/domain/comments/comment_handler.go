package comments

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

type createCommentRequest struct {
	Text       string  `json:"text" binding:"required"`
	LocationID *string `json:"locationId"`
}

// Create handles POST /api/trips/:tripId/comments.
func (h *Handler) Create(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	authorID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	var locationID *uuid.UUID
	if req.LocationID != nil {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid locationId", "details": err.Error()})
			return
		}
		locationID = &id
	}

	comment, err := h.service.AddComment(c.Request.Context(), tripID, authorID, locationID, req.Text)
	if err != nil {
		h.RespondError(c, err, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListForTrip handles GET /api/trips/:tripId/comments.
func (h *Handler) ListForTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	comments, err := h.service.ListForTrip(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Delete handles DELETE /api/comments/:commentId.
func (h *Handler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commentId", "details": err.Error()})
		return
	}

	authorID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), commentID, authorID); err != nil {
		h.RespondError(c, err, "failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
