package entity

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized
	Name     string `gorm:"size:255;not null" json:"name"`
	Phone    string `gorm:"size:50" json:"phone"`
	Address  string `json:"address"`
	IsAdmin  bool   `gorm:"not null" json:"isAdmin"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role is the JWT role claim for the user.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "customer"
}
