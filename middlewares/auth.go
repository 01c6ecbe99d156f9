package middlewares

import (
	"net/http"
	"slices"
	"strings"

	"milano/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and, when roles are given, requires
// one of them.
func AuthMiddleware(secret string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		authorize(c, strings.TrimPrefix(h, "Bearer "), secret, roles)
	}
}

func authorize(c *gin.Context, tokenStr, secret string, roles []string) {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)
	c.Set(utils.CtxClaims, claims)

	if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}
