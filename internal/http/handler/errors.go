package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/http/middleware"
	"clienthub.app/hub/internal/service"
)

// respondError maps a service error onto a status code. Validation messages
// are safe to echo back; everything else gets a fixed message.
func respondError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIdentityNotFound), errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, service.ErrAuthProviderUnavailable):
		slog.ErrorContext(ctx, "dependency unavailable", "error", err, "op", op)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		slog.ErrorContext(ctx, "unexpected error", "error", err, "op", op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func callerFrom(c *gin.Context) (domain.Identity, bool) {
	identity, ok := middleware.GetIdentity(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return domain.Identity{}, false
	}
	return identity, true
}
