package controllers

import (
	"milano/pkg/apperr"
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// GET /reviews?menuItemId=
func (rc *ReviewController) List(c *gin.Context) {
	id, err := queryUint(c, "menuItemId")
	if err == nil && id == nil {
		err = apperr.Validation("menuItemId is required")
	}
	if err != nil {
		resp.Error(c, err)
		return
	}
	summary, err := rc.reviews.ListForItem(c.Request.Context(), *id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, summary)
}

// POST /reviews
func (rc *ReviewController) Create(c *gin.Context) {
	var req services.CreateReviewReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	review, err := rc.reviews.Create(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"success": true, "review": review})
}
