package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

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

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		h.Logger.Warn("Invalid user ID in context", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userUUID)
	if err != nil {
		h.RespondError(c, err, "failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/me.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondValidationError(c, err)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), userUUID, req)
	if err != nil {
		h.RespondError(c, err, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}
