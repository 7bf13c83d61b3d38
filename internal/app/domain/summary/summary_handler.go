package summary

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripforge/tripforge/internal/app/domain"
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

// Recompute handles PUT /api/trips/:tripId/preference-summary. The aggregate
// is rebuilt server-side from the current membership; the request body is
// ignored.
func (h *Handler) Recompute(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	summary, err := h.service.Recompute(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to recompute preference summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Get handles GET /api/trips/:tripId/preference-summary.
func (h *Handler) Get(c *gin.Context) {
	tripID, ok := h.parseTripID(c)
	if !ok {
		return
	}

	summary, err := h.service.Get(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch preference summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
