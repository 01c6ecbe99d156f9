package entity

import "time"

type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	NameUz   string `gorm:"size:255;not null" json:"nameUz"`
	NameRu   string `gorm:"size:255;not null" json:"nameRu"`
	NameEn   string `gorm:"size:255;not null" json:"nameEn"`
	ImageURL string `json:"imageUrl"`

	Name string `gorm:"-" json:"name,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *Category) Localize(lang string) {
	c.Name = pick(lang, c.NameUz, c.NameRu, c.NameEn)
}
