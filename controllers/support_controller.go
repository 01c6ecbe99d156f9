package controllers

import (
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

type SupportController struct {
	support *services.SupportService
}

func NewSupportController(support *services.SupportService) *SupportController {
	return &SupportController{support: support}
}

// GET /support?userId= ; without userId every ticket is listed
func (sc *SupportController) List(c *gin.Context) {
	userID, err := queryUint(c, "userId")
	if err != nil {
		resp.Error(c, err)
		return
	}
	tickets, err := sc.support.List(c.Request.Context(), userID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"tickets": tickets})
}

// POST /support
func (sc *SupportController) Create(c *gin.Context) {
	var req services.CreateTicketReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	ticket, err := sc.support.Create(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"success": true, "ticket": ticket})
}

// PATCH /support/:id (admin)
func (sc *SupportController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	var req services.UpdateTicketReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	ticket, err := sc.support.Update(c.Request.Context(), id, req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"success": true, "ticket": ticket})
}
