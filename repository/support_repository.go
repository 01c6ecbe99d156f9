package repository

import (
	"context"
	"time"

	"milano/entity"

	"gorm.io/gorm"
)

type SupportRepository struct {
	DB *gorm.DB
}

func NewSupportRepository(db *gorm.DB) *SupportRepository {
	return &SupportRepository{DB: db}
}

func (r *SupportRepository) CreateTicket(ctx context.Context, t *entity.SupportTicket) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *SupportRepository) GetTicket(ctx context.Context, id uint) (*entity.SupportTicket, error) {
	var t entity.SupportTicket
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *SupportRepository) ListTickets(ctx context.Context, userID *uint) ([]entity.SupportTicket, error) {
	q := r.DB.WithContext(ctx).Model(&entity.SupportTicket{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var out []entity.SupportTicket
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *SupportRepository) UpdateTicket(ctx context.Context, id uint, status, priority *string, at time.Time) error {
	fields := map[string]any{"updated_at": at}
	if status != nil {
		fields["status"] = *status
	}
	if priority != nil {
		fields["priority"] = *priority
	}
	res := r.DB.WithContext(ctx).Model(&entity.SupportTicket{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
