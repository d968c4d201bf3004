package handler

import (
	"context"
	"errors"
	"net/http"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, body ErrorBody) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// respondFailure maps a use case error onto a status code
func respondFailure(c *gin.Context, log logger.Logger, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: verr.Message, Field: verr.Field})
	case errors.Is(err, entity.ErrNoOffers):
		respondError(c, http.StatusNotFound, ErrorBody{Code: "NO_OFFERS", Message: "No flight offers are available for this search"})
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, ErrorBody{Code: "TIMEOUT", Message: "The request took too long"})
	case errors.Is(err, context.Canceled):
		// client went away
		c.Status(499)
	default:
		log.Error("Request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"})
	}
}
