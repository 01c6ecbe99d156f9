package entity

import "time"

// Review is unique per (UserID, MenuItemID).
type Review struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     uint    `gorm:"not null;uniqueIndex:idx_reviews_user_item" json:"userId"`
	MenuItemID uint    `gorm:"not null;uniqueIndex:idx_reviews_user_item;index" json:"menuItemId"`
	Rating     int     `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string `json:"comment"`

	UserName string `gorm:"-" json:"userName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
