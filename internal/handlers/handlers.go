package handlers

import (
	"errors"
	"strconv"

	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

// fail maps service errors onto HTTP responses. Out-of-scope records are
// reported as not found. Unexpected errors are logged server-side and the
// client only sees a generic message.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, "record not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrCannotRemoveCreator),
		errors.Is(err, services.ErrFileTypeNotAllowed),
		errors.Is(err, services.ErrFileTooLarge):
		response.BadRequest(c, err.Error())
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		response.ServerError(c, "internal server error")
	}
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
