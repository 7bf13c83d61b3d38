package trips

import (
	"net/http"
	"strconv"

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

func parseParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "details": err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func requesterID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/trips.
func (h *Handler) Create(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err, "failed to create trip")
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// Get handles GET /api/trips/:tripId.
func (h *Handler) Get(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}

	trip, err := h.service.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// List handles GET /api/trips with optional hostId, status, city, limit and
// offset query parameters.
func (h *Handler) List(c *gin.Context) {
	var filter models.TripFilter

	if v := c.Query("hostId"); v != "" {
		hostID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hostId", "details": err.Error()})
			return
		}
		filter.HostID = &hostID
	}
	if v := c.Query("status"); v != "" {
		status := models.TripStatus(v)
		filter.Status = &status
	}
	if v := c.Query("city"); v != "" {
		filter.City = &v
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	trips, err := h.service.ListTrips(c.Request.Context(), filter)
	if err != nil {
		h.RespondError(c, err, "failed to list trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListForUser handles GET /api/users/:userId/trips.
func (h *Handler) ListForUser(c *gin.Context) {
	userID, ok := parseParamUUID(c, "userId")
	if !ok {
		return
	}

	trips, err := h.service.ListUserTrips(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "failed to list trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// PastForUser handles GET /api/users/:userId/past-trips, the small slice of
// travel history that feeds suggestion prompts.
func (h *Handler) PastForUser(c *gin.Context) {
	userID, ok := parseParamUUID(c, "userId")
	if !ok {
		return
	}

	trips, err := h.service.RecentUserTrips(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "failed to list past trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTimes handles GET /api/trips/:tripId/times.
func (h *Handler) GetTimes(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}

	times, err := h.service.GetTripTimes(c.Request.Context(), tripID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch trip times")
		return
	}

	c.JSON(http.StatusOK, times)
}

type updateEstimatedTimeRequest struct {
	EstimatedTime string `json:"estimatedTime" binding:"required"`
}

// UpdateEstimatedTime handles PUT /api/trips/:tripId/estimated-time.
func (h *Handler) UpdateEstimatedTime(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}

	var req updateEstimatedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	if err := h.service.UpdateEstimatedTime(c.Request.Context(), tripID, req.EstimatedTime); err != nil {
		h.RespondError(c, err, "failed to update estimated time")
		return
	}

	c.JSON(http.StatusOK, gin.H{"estimatedTime": req.EstimatedTime})
}

type updateStatusRequest struct {
	Status models.TripStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/trips/:tripId/status. Host only.
func (h *Handler) UpdateStatus(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), tripID, requester, req.Status); err != nil {
		h.RespondError(c, err, "failed to update trip status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// Delete handles DELETE /api/trips/:tripId. Host only, planning trips only.
func (h *Handler) Delete(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(c.Request.Context(), tripID, requester); err != nil {
		h.RespondError(c, err, "failed to delete trip")
		return
	}

	c.Status(http.StatusNoContent)
}

type addLocationRequest struct {
	LocationID string `json:"locationId" binding:"required"`
}

// AddLocation handles POST /api/trips/:tripId/locations.
func (h *Handler) AddLocation(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}

	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid locationId", "details": err.Error()})
		return
	}

	if err := h.service.AddLocation(c.Request.Context(), tripID, locationID); err != nil {
		h.RespondError(c, err, "failed to add location to trip")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveLocation handles DELETE /api/trips/:tripId/locations/:locationId.
func (h *Handler) RemoveLocation(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}
	locationID, ok := parseParamUUID(c, "locationId")
	if !ok {
		return
	}

	if err := h.service.RemoveLocation(c.Request.Context(), tripID, locationID); err != nil {
		h.RespondError(c, err, "failed to remove location from trip")
		return
	}

	c.Status(http.StatusNoContent)
}

type locationOrderRequest struct {
	LocationOrder []string `json:"locationOrder" binding:"required"`
}

// SetLocationOrder handles PUT /api/trips/:tripId/location-order. Host only.
func (h *Handler) SetLocationOrder(c *gin.Context) {
	tripID, ok := parseParamUUID(c, "tripId")
	if !ok {
		return
	}
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	var req locationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	if err := h.service.SetLocationOrder(c.Request.Context(), tripID, requester, req.LocationOrder); err != nil {
		h.RespondError(c, err, "failed to update location order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locationOrder": req.LocationOrder})
}
