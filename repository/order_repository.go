package repository

import (
	"context"
	"errors"
	"time"

	"milano/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// header + items in one transaction; a failed item insert rolls the header back
func (r *OrderRepository) CreateOrder(ctx context.Context, o *entity.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := *o
		header.Items = nil
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		items := make([]entity.OrderItem, len(o.Items))
		for i, it := range o.Items {
			it.OrderID = header.ID
			if it.CreatedAt.IsZero() {
				it.CreatedAt = header.CreatedAt
			}
			if err := tx.Create(&it).Error; err != nil {
				return err
			}
			items[i] = it
		}

		header.Items = items
		*o = header
		return nil
	})
}

func (r *OrderRepository) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, f OrderFilter) ([]entity.Order, error) {
	q := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	var out []entity.Order
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// only moves when the row is still in `from`
func (r *OrderRepository) UpdateStatusGuard(ctx context.Context, id uint, from, to entity.OrderStatus, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id uint, to entity.OrderStatus, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
