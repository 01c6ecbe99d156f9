package repository

import (
	"context"

	"milano/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// existing (user, item) pair is rejected, never updated
func (r *ReviewRepository) CreateReview(ctx context.Context, rev *entity.Review) error {
	db := r.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&entity.Review{}).
		Where("user_id = ? AND menu_item_id = ?", rev.UserID, rev.MenuItemID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translate(db.Create(rev).Error)
}

func (r *ReviewRepository) ListReviews(ctx context.Context, menuItemID uint) ([]entity.Review, error) {
	var out []entity.Review
	err := r.DB.WithContext(ctx).
		Where("menu_item_id = ?", menuItemID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *ReviewRepository) RatingStats(ctx context.Context, menuItemID uint) (float64, int64, error) {
	var agg struct {
		Avg   *float64
		Count int64
	}
	err := r.DB.WithContext(ctx).Model(&entity.Review{}).
		Where("menu_item_id = ?", menuItemID).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	if agg.Avg == nil {
		return 0, agg.Count, nil
	}
	return *agg.Avg, agg.Count, nil
}
