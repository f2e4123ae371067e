package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Field   string   `json:"field,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without their detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validationErr     *services.ValidationError
		authorizationErr  *services.AuthorizationError
		authenticationErr *services.AuthenticationError
		notFoundErr       *services.NotFoundError
		invalidStateErr   *services.InvalidStateError
		incompleteErr     *services.ProfileIncompleteError
		conflictErr       *services.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Code:    validationErr.Code,
			Field:   validationErr.Field,
		})
	case errors.As(err, &authorizationErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: authorizationErr.Error(),
			Code:    "NOT_AUTHORIZED",
		})
	case errors.As(err, &authenticationErr):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: authenticationErr.Message,
			Code:    "AUTHENTICATION_FAILED",
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
			Code:    "NOT_FOUND",
		})
	case errors.As(err, &invalidStateErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_state",
			Message: invalidStateErr.Error(),
			Code:    "INVALID_STATE",
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: conflictErr.Message,
			Code:    "CONFLICT",
		})
	case errors.As(err, &incompleteErr):
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{
			Error:   "profile_incomplete",
			Message: incompleteErr.Error(),
			Code:    "PROFILE_INCOMPLETE",
			Missing: incompleteErr.Missing,
		})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// respondBindError reports a body that failed to decode or bind
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body: " + err.Error(),
		Code:    "INVALID_BODY",
	})
}
