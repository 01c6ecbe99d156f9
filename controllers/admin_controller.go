package controllers

import (
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	auth      *services.AuthService
	analytics *services.AnalyticsService
}

func NewAdminController(auth *services.AuthService, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{auth: auth, analytics: analytics}
}

// POST /admin/check; unknown emails are simply not admins
func (ac *AdminController) Check(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	ok, err := ac.auth.IsAdmin(c.Request.Context(), req.Email)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"isAdmin": ok})
}

// GET /admin/users
func (ac *AdminController) Users(c *gin.Context) {
	users, err := ac.auth.ListUsers(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"users": users})
}

// GET /analytics?period=day|week|month|year
func (ac *AdminController) Analytics(c *gin.Context) {
	out, err := ac.analytics.Compute(c.Request.Context(), c.Query("period"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
