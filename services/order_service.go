package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/pkg/logger"
	"milano/pkg/metrics"
	"milano/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultPaymentMethod = "cash"

type OrderService struct {
	Orders  repository.OrderStore
	Users   repository.UserStore
	Catalog *CatalogService

	// UTC clock, swapped in tests
	Now func() time.Time
}

func NewOrderService(orders repository.OrderStore, users repository.UserStore, catalog *CatalogService) *OrderService {
	return &OrderService{
		Orders:  orders,
		Users:   users,
		Catalog: catalog,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// ----- DTOs from Controller -----
type OrderItemIn struct {
	MenuItemID uint            `json:"id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type CreateOrderReq struct {
	UserID          *uint           `json:"userId"`
	Items           []OrderItemIn   `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	Phone           string          `json:"phone"`
	Notes           *string         `json:"notes"`
	PaymentMethod   string          `json:"paymentMethod"`
}

func (r *CreateOrderReq) validate() error {
	if len(r.Items) == 0 {
		return apperr.Validation("order items are required")
	}
	for i, it := range r.Items {
		if it.MenuItemID == 0 {
			return apperr.Validation("items[%d]: id is required", i)
		}
		if it.Quantity <= 0 {
			return apperr.Validation("items[%d]: quantity must be positive", i)
		}
		if it.Price.IsNegative() {
			return apperr.Validation("items[%d]: price must not be negative", i)
		}
	}
	if strings.TrimSpace(r.Phone) == "" {
		return apperr.Validation("phone is required")
	}
	if strings.TrimSpace(r.DeliveryAddress) == "" {
		return apperr.Validation("delivery address is required")
	}
	if !r.TotalAmount.IsPositive() {
		return apperr.Validation("total amount must be positive")
	}
	return nil
}

// ----- Create -----
func (s *OrderService) Create(ctx context.Context, req *CreateOrderReq) (*entity.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := s.stamp()
	order := entity.Order{
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		Status:          entity.StatusPending,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Phone:           strings.TrimSpace(req.Phone),
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = defaultPaymentMethod
	}
	if req.Latitude != nil && req.Longitude != nil {
		order.Latitude, order.Longitude = req.Latitude, req.Longitude
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, entity.OrderItem{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			CreatedAt:  now,
		})
	}

	if err := s.Orders.CreateOrder(ctx, &order); err != nil {
		return nil, apperr.Unavailable(err, "could not save order")
	}
	metrics.OrderCreated()
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"order": order.ID,
		"items": len(order.Items),
		"total": order.TotalAmount.String(),
	}).Info("order created")

	out := []entity.Order{order}
	s.decorate(ctx, out)
	return &out[0], nil
}

// ----- List & Detail -----
type ListOrdersReq struct {
	UserID *uint
	Bucket entity.Bucket
	// case-insensitive match on customer name, phone or order id
	Query string
}

func (s *OrderService) List(ctx context.Context, req ListOrdersReq) ([]entity.Order, error) {
	orders, err := s.Orders.ListOrders(ctx, repository.OrderFilter{UserID: req.UserID})
	if err != nil {
		return nil, apperr.Unavailable(err, "could not list orders")
	}
	s.decorate(ctx, orders)

	if req.Bucket != "" {
		orders = entity.Classify(orders, req.Bucket)
	}
	if q := strings.ToLower(strings.TrimSpace(req.Query)); q != "" {
		orders = filterOrders(orders, q)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := s.Orders.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "could not load order")
	}
	out := []entity.Order{*o}
	s.decorate(ctx, out)
	return &out[0], nil
}

// decorate resolves item names and attaches the ordering user in place.
func (s *OrderService) decorate(ctx context.Context, orders []entity.Order) {
	if len(orders) == 0 {
		return
	}
	names := s.Catalog.Names(ctx, entity.MenuItemIDs(orders))

	var userIDs []uint
	for _, o := range orders {
		if o.UserID != nil {
			userIDs = append(userIDs, *o.UserID)
		}
	}
	users := map[uint]entity.User{}
	if len(userIDs) > 0 && s.Users != nil {
		found, err := s.Users.FindUsers(ctx, userIDs)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Warn("order users unavailable")
		} else {
			users = found
		}
	}

	for i := range orders {
		o := &orders[i]
		if o.Items == nil {
			o.Items = []entity.OrderItem{}
		}
		for j := range o.Items {
			it := &o.Items[j]
			if name, ok := names[it.MenuItemID]; ok {
				it.Name = name
			} else {
				it.Name = entity.PlaceholderName(it.MenuItemID)
			}
		}
		if o.UserID != nil {
			if u, ok := users[*o.UserID]; ok {
				name, email := u.Name, u.Email
				o.UserName, o.UserEmail = &name, &email
			}
		}
	}
}

func filterOrders(orders []entity.Order, q string) []entity.Order {
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		switch {
		case strings.Contains(strconv.FormatUint(uint64(o.ID), 10), q),
			strings.Contains(strings.ToLower(o.Phone), q),
			o.UserName != nil && strings.Contains(strings.ToLower(*o.UserName), q):
			out = append(out, o)
		}
	}
	return out
}

// stamp is now truncated to what every backend can store.
func (s *OrderService) stamp() time.Time {
	return s.Now().UTC().Truncate(time.Microsecond)
}
