package controllers

import (
	"context"

	"milano/entity"
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type statusReq struct {
	Status entity.OrderStatus `json:"status"`
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	order, err := oc.orders.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"success": true, "order": order})
}

// GET /orders?userId=&bucket=&q=
func (oc *OrderController) List(c *gin.Context) {
	userID, err := queryUint(c, "userId")
	if err != nil {
		resp.Error(c, err)
		return
	}
	orders, err := oc.orders.List(c.Request.Context(), services.ListOrdersReq{
		UserID: userID,
		Bucket: entity.Bucket(c.Query("bucket")),
		Query:  c.Query("q"),
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"orders": orders})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// PATCH /orders/:id moves an order one step along the workflow.
func (oc *OrderController) Advance(c *gin.Context) {
	oc.transition(c, oc.orders.Advance)
}

// PUT /orders/:id/status sets any known status.
func (oc *OrderController) Override(c *gin.Context) {
	oc.transition(c, oc.orders.Override)
}

func (oc *OrderController) transition(c *gin.Context, apply func(context.Context, uint, entity.OrderStatus) (*entity.Order, error)) {
	id, err := pathID(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	var req statusReq
	if err := bindJSON(c, &req); err != nil {
		resp.Error(c, err)
		return
	}
	order, err := apply(c.Request.Context(), id, req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"success": true, "order": order})
}
