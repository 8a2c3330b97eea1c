package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
)

// respondServiceError maps a service error kind onto its HTTP status.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrAuth):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// requireUserID returns the authenticated user, responding 401 when there is none.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// parseIDParam parses a numeric path parameter, responding 400 when it is malformed.
func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// absoluteURL prefixes a served path with the request's scheme and host.
func absoluteURL(c *gin.Context, path string) string {
	if path == "" || path[0] != '/' {
		return path
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + path
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
