package services

import (
	"context"
	"errors"
	"time"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/pkg/logger"
	"milano/pkg/metrics"
	"milano/repository"

	"github.com/sirupsen/logrus"
)

// Advance moves the order one step along the workflow. to must be the
// immediate successor of the current status.
func (s *OrderService) Advance(ctx context.Context, id uint, to entity.OrderStatus) (*entity.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanAdvance(o.Status, to) {
		return nil, apperr.InvalidTransition("cannot move order %d from %s to %s", id, o.Status, to)
	}

	at := s.nextUpdatedAt(o.UpdatedAt)
	ok, err := s.Orders.UpdateStatusGuard(ctx, id, o.Status, to, at)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not update order")
	}
	if !ok {
		// someone else moved it first
		return nil, apperr.InvalidTransition("order %d is no longer %s", id, o.Status)
	}

	metrics.StatusChanged(string(to), "advance")
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"order": id, "from": o.Status, "to": to,
	}).Info("order advanced")
	return s.Get(ctx, id)
}

// Override sets any known status without checking the workflow. Admin only.
func (s *OrderService) Override(ctx context.Context, id uint, to entity.OrderStatus) (*entity.Order, error) {
	if !to.Valid() {
		return nil, apperr.Validation("unknown status %q", to)
	}
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.Orders.SetStatus(ctx, id, to, s.nextUpdatedAt(o.UpdatedAt))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "could not update order")
	}

	metrics.StatusChanged(string(to), "override")
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"order": id, "from": o.Status, "to": to,
	}).Warn("order status overridden")
	return s.Get(ctx, id)
}

func (s *OrderService) load(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := s.Orders.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "could not load order")
	}
	return o, nil
}

// updatedAt never repeats or goes backwards, even on a coarse clock
func (s *OrderService) nextUpdatedAt(prev time.Time) time.Time {
	at := s.stamp()
	if !at.After(prev) {
		at = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return at
}
