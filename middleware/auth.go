package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/auth"
)

// userIDKey is the gin context key the gate stores the authenticated user id
// under. Handlers read it through UserID.
const userIDKey = "auth_user_id"

// UserID returns the authenticated user id attached by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// AuthRequired is the gate in front of every protected route. Checks run in
// a fixed order and each failure is terminal:
//
//  1. a Bearer token must be present,
//  2. the token must not be on the deny-list,
//  3. the token must verify (signature, structure, expiry).
//
// All rejections share the same status and envelope; only the message
// differs.
func AuthRequired(codec *auth.TokenCodec, revoked *auth.RevocationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			reject(c, "No token provided")
			return
		}

		if revoked.Contains(token) {
			reject(c, "Token not allowed")
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			reject(c, "Invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func reject(c *gin.Context, message string) {
	zerolog.Ctx(c.Request.Context()).Debug().
		Str("path", c.Request.URL.Path).
		Str("reason", message).
		Msg("Request rejected by auth gate")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": message,
	})
}
