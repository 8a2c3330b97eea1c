package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/constants"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/token"
)

// AccessTokenValidator resolves an access token to the user it was issued for.
type AccessTokenValidator interface {
	ValidateAccessToken(accessToken string) (uint64, error)
}

// RequireAuth accepts either a Bearer access token or a login session.
// A malformed or invalid Authorization header is rejected even when a session exists.
func RequireAuth(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := token.ExtractBearer(c)
		switch {
		case err == nil:
			userID, err := tokens.ValidateAccessToken(raw)
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		case !errors.Is(err, token.ErrAuthHeaderMissing):
			apierrors.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
