package controllers

import (
	"strconv"
	"strings"

	"milano/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// queryUint returns nil when the parameter is absent.
func queryUint(c *gin.Context, key string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("invalid %s", key)
	}
	v := uint(n)
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, apperr.Validation("%s is required", key)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Validation("invalid %s", key)
	}
	return f, nil
}

// bindJSON reports malformed bodies as validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}
