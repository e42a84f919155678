package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mapmyissues/models"
	"mapmyissues/utils"
)

const (
	sessionKey = "session_user"
	// TokenCookie is the cookie login sets alongside the returned token.
	TokenCookie = "token"
)

func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(TokenCookie); err == nil {
		return token
	}
	return ""
}

// RequireSession rejects requests without a valid session token.
func RequireSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			utils.Fail(c, http.StatusUnauthorized, "Token required")
			return
		}

		user, err := utils.ParseToken(secret, token)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(sessionKey, user)
		c.Next()
	}
}

// OptionalSession attaches the session user when a valid token is present,
// so read endpoints can report the caller's votes.
func OptionalSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			if user, err := utils.ParseToken(secret, token); err == nil {
				c.Set(sessionKey, user)
			}
		}
		c.Next()
	}
}

// SessionFrom returns the session user set by RequireSession or OptionalSession.
func SessionFrom(c *gin.Context) (models.SessionUser, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return models.SessionUser{}, false
	}
	user, ok := value.(models.SessionUser)
	return user, ok
}
