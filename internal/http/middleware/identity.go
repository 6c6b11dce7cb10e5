package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/common/logger"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/service"
)

type contextKey string

const (
	SessionCookieName  = "clienthub_session"
	SessionTokenHeader = "X-Session-Token"

	identityContextKey contextKey = "identity"
)

var errNoSession = errors.New("no session")

// RequireIdentity resolves the session to a caller identity and aborts with
// 401 when it cannot. Downstream handlers read it with GetIdentity.
func RequireIdentity(resolver service.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, err := SessionToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx := c.Request.Context()
		identity, err := resolver.Resolve(ctx, sessionToken)
		if err != nil {
			if errors.Is(err, domain.ErrIdentityNotFound) {
				ClearSessionCookie(c, false)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			slog.ErrorContext(ctx, "failed to resolve identity", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "failed to validate session"})
			return
		}

		role := string(identity.Role())
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			OrganizationID: &identity.Scope.OrganizationID,
			ClientID:       identity.Scope.ClientID,
			ProfileID:      &identity.Profile.ID,
			Role:           &role,
		})
		ctx = context.WithValue(ctx, identityContextKey, identity)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireStaff rejects portal clients. It must run after RequireIdentity.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok || !identity.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		c.Next()
	}
}

func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(domain.Identity)
	return identity, ok
}

// SessionToken reads the bearer token from the header first, then the cookie.
func SessionToken(c *gin.Context) (string, error) {
	raw := c.GetHeader(SessionTokenHeader)
	if raw == "" {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			return "", errNoSession
		}
		raw = cookie
	}
	if raw == "" {
		return "", errNoSession
	}
	return raw, nil
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}
