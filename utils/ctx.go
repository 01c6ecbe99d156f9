package utils

import "github.com/gin-gonic/gin"

// gin context keys set by the auth middlewares
const (
	CtxUserID = "userId"
	CtxRole   = "role"
	CtxClaims = "claims"
)

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(uint)
	return id
}

func CurrentRole(c *gin.Context) string {
	v, _ := c.Get(CtxRole)
	role, _ := v.(string)
	return role
}
