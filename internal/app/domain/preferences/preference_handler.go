package preferences

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripforge/tripforge/internal/app/domain"
	"github.com/tripforge/tripforge/internal/app/middleware"
	"github.com/tripforge/tripforge/internal/app/models"
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

// parseUserID resolves the path user id and rejects callers acting on a
// record that is not their own: a preference record is owner-only.
func (h *Handler) parseUserID(c *gin.Context) (uuid.UUID, bool) {
	userUUID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id", "details": err.Error()})
		return uuid.Nil, false
	}
	if requester := middleware.GetUserIDFromContext(c); requester != userUUID.String() {
		h.RespondError(c,
			fmt.Errorf("preferences of user %s belong to their owner: %w", userUUID, models.ErrForbidden),
			"cannot access another user's preferences")
		return uuid.Nil, false
	}
	return userUUID, true
}

// Create handles POST /api/users/:userId/preferences. Returns 409 when a
// record already exists; the client is expected to PUT instead.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req models.UpsertPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	prefs, err := h.service.CreatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		h.RespondError(c, err, "failed to create preferences")
		return
	}

	c.JSON(http.StatusCreated, prefs)
}

// Upsert handles PUT /api/users/:userId/preferences. The stored record is
// replaced wholesale; omitted list fields become empty lists.
func (h *Handler) Upsert(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req models.UpsertPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	prefs, err := h.service.UpsertPreferences(c.Request.Context(), userID, req)
	if err != nil {
		h.RespondError(c, err, "failed to save preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Get handles GET /api/users/:userId/preferences.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	prefs, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Delete handles DELETE /api/users/:userId/preferences.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePreferences(c.Request.Context(), userID); err != nil {
		h.RespondError(c, err, "failed to delete preferences")
		return
	}

	c.Status(http.StatusNoContent)
}
