package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/auth"
)

// Context keys set by RequireAuth.
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// RequireAuth validates the Bearer token and stores the caller's identity
// on the gin context. Private module routes are mounted behind it.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Error(c, apierrors.CodeUnauthorized)
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Error(c, apierrors.CodeInvalidToken)
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			code := apierrors.CodeInvalidToken
			if errors.Is(err, auth.ErrTokenExpired) {
				code = apierrors.CodeTokenExpired
			}
			apierrors.Error(c, code)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from the gin context.
func GetCurrentUser(c *gin.Context) (userID int64, username string, ok bool) {
	idVal, exists := c.Get(ctxUserID)
	if !exists {
		return 0, "", false
	}
	id, isInt := idVal.(int64)
	if !isInt {
		return 0, "", false
	}
	name, _ := c.Get(ctxUsername)
	username, _ = name.(string)
	return id, username, true
}
