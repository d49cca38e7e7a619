package handlers

import (
	"errors"
	"net/http"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusForKind maps an error kind to its HTTP status code
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindNoActiveTrip, apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotifier:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error payload for err. Storage failures are
// logged with their cause and surfaced with a generic message.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		message = "Something went wrong. Please try again."
	}

	payload := gin.H{
		"error":   string(kind),
		"message": message,
	}
	if kind == apperrors.KindNoActiveTrip {
		payload["hint"] = "Activate a trip before performing this operation"
	}

	c.JSON(status, payload)
}

// respondBindError writes the payload for a request body that failed binding
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   string(apperrors.KindValidation),
		"message": "Invalid request body: " + err.Error(),
	})
}
