package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rsvphub/utils"
)

// AuthRequired validates the Bearer token and rejects partial (pre-TOTP)
// tokens. On success the user id and username are stored in the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, secret)
		if err != nil || claims.Partial {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// PartialAuthAllowed accepts both full and partial tokens. Used only for the
// TOTP verification step.
func PartialAuthAllowed(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, secret string) (*utils.Claims, error) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, utils.ErrInvalidToken
	}
	return utils.ParseToken(secret, token)
}
