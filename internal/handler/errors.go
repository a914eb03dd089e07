package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/api"
	"taskboard/internal/logger"
	"taskboard/internal/service"
)

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Detail: detail})
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithDetail(c, http.StatusUnprocessableEntity, err.Error())
	case service.IsNotFound(err):
		abortWithDetail(c, http.StatusNotFound, "Task not found")
	default:
		log.WithError(err).Errorw("request failed", "path", c.FullPath())
		abortWithDetail(c, http.StatusInternalServerError, "Internal server error")
	}
}
