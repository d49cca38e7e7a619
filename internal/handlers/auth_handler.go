package handlers

import (
	"net/http"
	"strings"

	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/charterhub/roster-backend/internal/utils"
	"github.com/charterhub/roster-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *services.AuthService
	jwtService  *jwt.Service
	logger      *logrus.Logger
}

func NewAuthHandler(authService *services.AuthService, jwtService *jwt.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Login authenticates an admin and issues a token pair
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	device := utils.ParseUserAgent(utils.GetUserAgent(c))
	ip := utils.GetRealIP(c)

	user, err := h.authService.Verify(req.Username, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			h.logger.WithFields(logrus.Fields{
				"username": req.Username,
				"ip":       ip,
				"device":   device.String(),
			}).Warn("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid username or password",
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"username": user.Username,
		"ip":       ip,
		"device":   device.String(),
	}).Info("Admin logged in")

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Refresh exchanges a valid refresh token for a new access token
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Invalid or expired refresh token",
		})
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
	})
}
