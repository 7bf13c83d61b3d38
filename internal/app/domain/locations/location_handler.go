package locations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripforge/tripforge/internal/app/domain"
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

// Save handles POST /api/locations. Idempotent on the external place id.
func (h *Handler) Save(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	loc, err := h.service.SaveLocation(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err, "failed to save location")
		return
	}

	c.JSON(http.StatusCreated, loc)
}

// Get handles GET /api/locations/:locationId.
func (h *Handler) Get(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("locationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid locationId", "details": err.Error()})
		return
	}

	loc, err := h.service.GetLocation(c.Request.Context(), locationID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch location")
		return
	}

	c.JSON(http.StatusOK, loc)
}

// FindByPlaceID handles GET /api/locations?googlePlaceId=... for lookups by
// the external place identifier.
func (h *Handler) FindByPlaceID(c *gin.Context) {
	placeID := c.Query("googlePlaceId")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "googlePlaceId query parameter is required"})
		return
	}

	loc, err := h.service.GetLocationByPlaceID(c.Request.Context(), placeID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch location")
		return
	}

	c.JSON(http.StatusOK, loc)
}

// ListForTrip handles GET /api/trips/:tripId/locations.
func (h *Handler) ListForTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	locs, err := h.service.ListForTrip(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to list trip locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locs})
}
