package controllers

import (
	"milano/pkg/apperr"
	"milano/pkg/resp"
	"milano/services"
	"milano/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	user, err := a.auth.Register(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"success": true, "user": user})
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	token, user, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"success": true, "user": user, "token": token})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Error(c, apperr.Auth("unauthorized"))
		return
	}
	user, err := a.auth.Profile(c.Request.Context(), uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"user": user})
}

// PUT /auth/profile
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	if _, err := a.auth.UpdateProfile(c.Request.Context(), req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c)
}
