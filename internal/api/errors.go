package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	var (
		fieldErr     *analytics.InvalidFieldError
		paramErr     *analytics.InvalidParameterError
		insufficient *analytics.InsufficientDataError
	)
	switch {
	case errors.As(err, &fieldErr), errors.As(err, &paramErr), errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
