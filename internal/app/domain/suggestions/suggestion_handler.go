package suggestions

import (
	"encoding/json"
	"io"
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

// parseSuggestionRequest reads the optional request body. Fields beyond the
// known ones are collected as free-form trip context so callers can pass
// arbitrary planning details through to the prompt.
func parseSuggestionRequest(c *gin.Context) (models.SuggestionRequest, error) {
	var req models.SuggestionRequest

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return req, err
	}
	if len(body) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}

	var all map[string]any
	if err := json.Unmarshal(body, &all); err != nil {
		return req, err
	}
	for _, known := range []string{"userId", "destination", "startDate", "endDate", "tripPreferences"} {
		delete(all, known)
	}
	if len(all) > 0 {
		req.Extra = all
	}
	return req, nil
}

// SuggestForUser handles POST /api/users/:userId/suggestions.
func (h *Handler) SuggestForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId", "details": err.Error()})
		return
	}

	req, err := parseSuggestionRequest(c)
	if err != nil {
		h.RespondValidationError(c, err)
		return
	}

	result, err := h.service.SuggestLocationsForUser(c.Request.Context(), userID, req)
	if err != nil {
		h.RespondError(c, err, "failed to generate suggestions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestForTrip handles POST /api/trips/:tripId/suggestions. The body must
// name the requesting user and may carry a pre-aggregated group summary.
func (h *Handler) SuggestForTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId", "details": err.Error()})
		return
	}

	req, err := parseSuggestionRequest(c)
	if err != nil {
		h.RespondValidationError(c, err)
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	result, err := h.service.SuggestLocationsForTrip(c.Request.Context(), tripID, req)
	if err != nil {
		h.RespondError(c, err, "failed to generate suggestions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestTripIdeas handles POST /api/users/:userId/trip-ideas.
func (h *Handler) SuggestTripIdeas(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId", "details": err.Error()})
		return
	}

	req, err := parseSuggestionRequest(c)
	if err != nil {
		h.RespondValidationError(c, err)
		return
	}

	result, err := h.service.SuggestTripIdeas(c.Request.Context(), userID, req)
	if err != nil {
		h.RespondError(c, err, "failed to generate trip ideas")
		return
	}

	c.JSON(http.StatusOK, result)
}
