package handler

import (
	"net/http"

	"flowinvoice/internal/logger"
	"flowinvoice/pkg/response"

	"github.com/gin-gonic/gin"
)

// internalError logs a storage or unexpected failure and answers 500 without
// leaking its details.
func internalError(c *gin.Context, err error) {
	log := logger.WithComponent("http")
	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Str("request_id", c.GetString("request_id")).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "internal server error"))
}
